package fanin

import "sync"

// FanIn forwards values from every input onto a single channel in arrival
// order. The returned channel closes after the last input drains.
func FanIn[T any](inputs ...<-chan T) <-chan T {
	merged := make(chan T)

	var wg sync.WaitGroup
	forward := func(in <-chan T) {
		defer wg.Done()
		for v := range in {
			merged <- v
		}
	}

	wg.Add(len(inputs))
	for _, in := range inputs {
		go forward(in)
	}

	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged
}
