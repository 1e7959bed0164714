package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxaverages/internal/domain/model"
)

func TestCollator_FinalizeEmitsEveryCurrency(t *testing.T) {
	c := NewCollator(3)
	for i := 0; i < 5; i++ {
		e := entry(model.USD, i, "1.1")
		require.NoError(t, c.Observe(e.Key, e.Close))
	}
	e := entry(model.GBP, 0, "0.86")
	require.NoError(t, c.Observe(e.Key, e.Close))

	got := c.Finalize()

	require.Len(t, got, 2)
	assert.Equal(t, model.CurrencyPair{From: model.EUR, To: model.GBP}, got[0].Pair)
	assert.Len(t, got[0].Points, 1, "short windows are still emitted")
	assert.Equal(t, model.CurrencyPair{From: model.EUR, To: model.USD}, got[1].Pair)
	assert.Equal(t, []time.Time{day(2), day(3), day(4)}, dates(got[1].Points))
}

func TestCollator_OrderIndependent(t *testing.T) {
	input := []model.HistoryEntry{
		entry(model.USD, 3, "1.13"),
		entry(model.JPY, 1, "124.1"),
		entry(model.USD, 0, "1.10"),
		entry(model.USD, 2, "1.12"),
		entry(model.JPY, 0, "124.0"),
		entry(model.USD, 1, "1.11"),
	}
	reversed := make([]model.HistoryEntry, len(input))
	for i, e := range input {
		reversed[len(input)-1-i] = e
	}

	run := func(entries []model.HistoryEntry) []CollatedWindow {
		c := NewCollator(3)
		for _, e := range entries {
			require.NoError(t, c.Observe(e.Key, e.Close))
		}
		return c.Finalize()
	}

	assert.Equal(t, run(input), run(reversed))
}

func TestCollator_RejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name  string
		key   model.CurrencyKey
		close decimal.Decimal
	}{
		{"bad target code", model.CurrencyKey{From: model.EUR, To: "us", Date: day(0)}, decimal.NewFromInt(1)},
		{"missing date", model.CurrencyKey{From: model.EUR, To: model.USD}, decimal.NewFromInt(1)},
		{"negative price", model.NewCurrencyKey(model.EUR, model.USD, day(0)), decimal.NewFromInt(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCollator(3).Observe(tt.key, tt.close)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestCollator_NoInputAfterFinalize(t *testing.T) {
	c := NewCollator(3)
	assert.Empty(t, c.Finalize())

	e := entry(model.USD, 0, "1.1")
	assert.ErrorIs(t, c.Observe(e.Key, e.Close), ErrCollatorFinalized)
}
