package pipeline

import (
	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

// SimpleMovingAverage is the arithmetic mean of the closes, rounded half-up
// to two places. An empty window has no average.
func SimpleMovingAverage(points []model.PricePoint) (decimal.Decimal, bool) {
	if len(points) == 0 {
		return decimal.Zero, false
	}

	tally := decimal.Zero
	for _, p := range points {
		tally = tally.Add(p.Close)
	}
	return tally.DivRound(decimal.NewFromInt(int64(len(points))), model.AveragePlaces), true
}
