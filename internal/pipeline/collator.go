package pipeline

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

// CollatedWindow is the final window of one currency pair.
type CollatedWindow struct {
	Pair   model.CurrencyPair
	Points []model.PricePoint
}

// Collator buffers observations into one Window per currency pair. It has
// two phases: Observe only buffers, Finalize drains everything once.
type Collator struct {
	capacity  int
	windows   map[model.CurrencyPair]*Window
	finalized bool
}

func NewCollator(capacity int) *Collator {
	return &Collator{
		capacity: capacity,
		windows:  make(map[model.CurrencyPair]*Window),
	}
}

// Observe adds one closing price. Arrival order does not matter.
func (c *Collator) Observe(key model.CurrencyKey, close decimal.Decimal) error {
	if c.finalized {
		return ErrCollatorFinalized
	}
	entry := model.HistoryEntry{Key: key, Close: close}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	pair := key.Pair()
	w, ok := c.windows[pair]
	if !ok {
		w = NewWindow(c.capacity)
		c.windows[pair] = w
	}
	w.Insert(model.PricePoint{Date: key.Date, Close: close})
	return nil
}

// Finalize returns every observed pair's window, including short ones,
// ordered by pair. The collator accepts no input afterwards.
func (c *Collator) Finalize() []CollatedWindow {
	c.finalized = true

	out := make([]CollatedWindow, 0, len(c.windows))
	for pair, w := range c.windows {
		out = append(out, CollatedWindow{Pair: pair, Points: w.Points()})
	}
	slices.SortFunc(out, func(a, b CollatedWindow) int {
		switch {
		case a.Pair.Less(b.Pair):
			return -1
		case b.Pair.Less(a.Pair):
			return 1
		default:
			return 0
		}
	})
	c.windows = nil
	return out
}
