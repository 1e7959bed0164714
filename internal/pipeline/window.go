package pipeline

import (
	"slices"
	"time"

	"fxaverages/internal/domain/model"
)

// Window holds the most recent points of one currency pair, ascending by
// date, never more than its capacity. Dates are unique: a second point for
// a date already held is ignored.
type Window struct {
	capacity int
	points   []model.PricePoint
}

func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		points:   make([]model.PricePoint, 0, capacity+1),
	}
}

// Insert reports whether p was added. The earliest point is evicted when
// the window grows past capacity, which may be p itself.
func (w *Window) Insert(p model.PricePoint) bool {
	i, found := slices.BinarySearchFunc(w.points, p.Date, func(e model.PricePoint, t time.Time) int {
		return e.Date.Compare(t)
	})
	if found {
		return false
	}
	w.points = slices.Insert(w.points, i, p)
	if len(w.points) > w.capacity {
		w.points = slices.Delete(w.points, 0, 1)
	}
	return true
}

func (w *Window) Len() int {
	return len(w.points)
}

func (w *Window) Capacity() int {
	return w.capacity
}

// Points returns a copy of the contents in ascending date order.
func (w *Window) Points() []model.PricePoint {
	return slices.Clone(w.points)
}
