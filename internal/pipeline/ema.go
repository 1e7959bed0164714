package pipeline

import (
	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

const (
	// MinExponentialPoints is the shortest window with an exponential average.
	MinExponentialPoints = 6

	exponentialSeedPoints = 5
)

var two = decimal.NewFromInt(2)

// ExponentialMovingAverage seeds with the mean of the first five closes, then
// folds in each later close i as value*w + close*(1-w) with w = 2/(i+1)
// rounded half-up to two places. Points must be in ascending date order.
func ExponentialMovingAverage(points []model.PricePoint) (decimal.Decimal, bool) {
	if len(points) < MinExponentialPoints {
		return decimal.Zero, false
	}

	tally := decimal.Zero
	for _, p := range points[:exponentialSeedPoints] {
		tally = tally.Add(p.Close)
	}
	value := tally.Div(decimal.NewFromInt(exponentialSeedPoints))

	for i := exponentialSeedPoints; i < len(points); i++ {
		weight := ExponentialWeight(i)
		previous := value.Mul(weight)
		current := points[i].Close.Mul(decimal.NewFromInt(1).Sub(weight))
		value = previous.Add(current)
	}

	return value.Round(model.AveragePlaces), true
}

// ExponentialWeight is the weight applied to the running value at index i.
func ExponentialWeight(i int) decimal.Decimal {
	return two.DivRound(decimal.NewFromInt(int64(i+1)), model.AveragePlaces)
}
