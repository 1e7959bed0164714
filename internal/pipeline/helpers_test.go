package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

var baseDay = time.Date(2017, 5, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return baseDay.AddDate(0, 0, n)
}

func point(n int, close string) model.PricePoint {
	return model.PricePoint{Date: day(n), Close: decimal.RequireFromString(close)}
}

func points(closes ...string) []model.PricePoint {
	out := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = point(i, c)
	}
	return out
}

func entry(to model.Currency, n int, close string) model.HistoryEntry {
	return model.HistoryEntry{
		Key:   model.NewCurrencyKey(model.EUR, to, day(n)),
		Close: decimal.RequireFromString(close),
	}
}

func permutations(items []model.PricePoint) [][]model.PricePoint {
	if len(items) <= 1 {
		return [][]model.PricePoint{append([]model.PricePoint(nil), items...)}
	}
	var out [][]model.PricePoint
	for i := range items {
		rest := make([]model.PricePoint, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]model.PricePoint{items[i]}, p...))
		}
	}
	return out
}

func dates(ps []model.PricePoint) []time.Time {
	out := make([]time.Time, len(ps))
	for i, p := range ps {
		out[i] = p.Date
	}
	return out
}
