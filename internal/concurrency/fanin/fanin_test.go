package fanin

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanIn_MergesAndCloses(t *testing.T) {
	a := make(chan int)
	b := make(chan int)
	go func() {
		defer close(a)
		for i := 0; i < 3; i++ {
			a <- i
		}
	}()
	go func() {
		defer close(b)
		for i := 10; i < 13; i++ {
			b <- i
		}
	}()

	var got []int
	for v := range FanIn[int](a, b) {
		got = append(got, v)
	}
	sort.Ints(got)

	assert.Equal(t, []int{0, 1, 2, 10, 11, 12}, got)
}

func TestFanIn_NoInputs(t *testing.T) {
	_, ok := <-FanIn[string]()
	assert.False(t, ok)
}
