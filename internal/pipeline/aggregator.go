package pipeline

import (
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

// Aggregator consumes collated windows and keeps one average per pair in a
// private map until Results is called.
type Aggregator interface {
	Kind() model.AverageKind
	Aggregate(w CollatedWindow) bool
	Results() []model.AverageResult
	Skipped() []model.CurrencyPair
}

// AverageFunc computes an average, or reports false when the points are not
// enough for it.
type AverageFunc func(points []model.PricePoint) (decimal.Decimal, bool)

type averager struct {
	kind     model.AverageKind
	compute  AverageFunc
	averages map[model.CurrencyPair]decimal.Decimal
	skipped  []model.CurrencyPair
	logger   *slog.Logger
}

func newAverager(kind model.AverageKind, compute AverageFunc, logger *slog.Logger) *averager {
	if logger == nil {
		logger = slog.Default()
	}
	return &averager{
		kind:     kind,
		compute:  compute,
		averages: make(map[model.CurrencyPair]decimal.Decimal),
		logger:   logger.With("aggregator", kind.String()),
	}
}

func NewSimpleAggregator(logger *slog.Logger) Aggregator {
	return newAverager(model.SimpleAverage, SimpleMovingAverage, logger)
}

func NewExponentialAggregator(logger *slog.Logger) Aggregator {
	return newAverager(model.ExponentialAverage, ExponentialMovingAverage, logger)
}

func (a *averager) Kind() model.AverageKind {
	return a.kind
}

func (a *averager) Aggregate(w CollatedWindow) bool {
	value, ok := a.compute(w.Points)
	if !ok {
		a.logger.Warn("too few prices, currency skipped", "pair", w.Pair.String(), "prices", len(w.Points))
		a.skipped = append(a.skipped, w.Pair)
		return false
	}
	a.averages[w.Pair] = value
	return true
}

func (a *averager) Results() []model.AverageResult {
	out := make([]model.AverageResult, 0, len(a.averages))
	for pair, value := range a.averages {
		out = append(out, model.AverageResult{Pair: pair, Value: value})
	}
	sortResults(out)
	a.logger.Debug("complete", "currencies", len(out))
	return out
}

func (a *averager) Skipped() []model.CurrencyPair {
	return slices.Clone(a.skipped)
}

func sortResults(results []model.AverageResult) {
	slices.SortFunc(results, func(a, b model.AverageResult) int {
		switch {
		case a.Pair.Less(b.Pair):
			return -1
		case b.Pair.Less(a.Pair):
			return 1
		default:
			return 0
		}
	})
}
