package generator

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

// TestGenerator produces a reproducible random-walk history for a fixed set of
// target currencies, one closing price per business day.
type TestGenerator struct {
	name  string
	pairs []model.Currency
	days  int
	end   time.Time
	seed  int64
	log   *slog.Logger
}

func NewTestGenerator(name string, pairs []model.Currency, days int, end time.Time, seed int64, log *slog.Logger) *TestGenerator {
	if log == nil {
		log = slog.Default()
	}
	if days <= 0 {
		days = 20
	}
	return &TestGenerator{
		name:  name,
		pairs: pairs,
		days:  days,
		end:   model.Day(end),
		seed:  seed,
		log:   log.With("feed", name),
	}
}

func (t *TestGenerator) Name() string { return t.name }

// Fetch returns the same history for the same generator settings.
func (t *TestGenerator) Fetch(ctx context.Context) ([]model.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(t.seed))
	dates := businessDays(t.end, t.days)
	out := make([]model.HistoryEntry, 0, len(dates)*len(t.pairs))

	for _, to := range t.pairs {
		price := 0.5 + r.Float64()*2 // opening rate
		for _, d := range dates {
			// at most 0.5% movement per day
			price *= 1 + (r.Float64()-0.5)*0.01
			out = append(out, model.HistoryEntry{
				Key:   model.NewCurrencyKey(model.EUR, to, d),
				Close: decimal.NewFromFloat(price).Round(4),
			})
		}
	}
	t.log.Debug("generated", "pairs", len(t.pairs), "days", len(dates), "entries", len(out))
	return out, nil
}

// businessDays returns n weekdays ending at end, oldest first.
func businessDays(end time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	d := end
	for i := n - 1; i >= 0; {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out[i] = d
			i--
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}
