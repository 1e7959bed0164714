package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/routing"
)

type fakeReader struct {
	partitions int
	data       map[int][]model.HistoryEntry
	errs       map[int]error
}

func newFakeReader(partitions int, entries ...model.HistoryEntry) *fakeReader {
	r := &fakeReader{
		partitions: partitions,
		data:       make(map[int][]model.HistoryEntry),
		errs:       make(map[int]error),
	}
	for _, e := range entries {
		p := routing.PartitionOf(e.Key, partitions)
		r.data[p] = append(r.data[p], e)
	}
	return r
}

func (r *fakeReader) Partitions() int { return r.partitions }

func (r *fakeReader) ScanPartition(_ context.Context, partition int) ([]model.HistoryEntry, error) {
	if err := r.errs[partition]; err != nil {
		return nil, err
	}
	return r.data[partition], nil
}

func scenario(to model.Currency, closes ...string) []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(closes))
	for i, c := range closes {
		out[i] = entry(to, i, c)
	}
	return out
}

func TestNewGraph_WindowCap(t *testing.T) {
	for n := 1; n <= MaxWindowSize; n++ {
		g, err := NewGraph(n, nil)
		require.NoError(t, err, "window %d", n)
		assert.Equal(t, n, g.WindowSize())
	}

	for _, n := range []int{11, 12, 100} {
		_, err := NewGraph(n, nil)
		assert.ErrorIs(t, err, ErrWindowSizeExceeded, "window %d", n)
	}

	for _, n := range []int{0, -1} {
		_, err := NewGraph(n, nil)
		assert.ErrorIs(t, err, ErrInvalidWindowSize, "window %d", n)
	}
}

func TestGraph_Run_EndToEnd(t *testing.T) {
	entries := append(
		scenario(model.USD, "1.00", "1.00", "1.00", "1.00", "1.00", "1.30"),
		scenario(model.GBP, "0.86", "0.87", "0.88")...,
	)
	src := newFakeReader(1, entries...)
	g, err := NewGraph(10, nil)
	require.NoError(t, err)

	res, err := g.Run(context.Background(), src, 0)
	require.NoError(t, err)

	usd := model.CurrencyPair{From: model.EUR, To: model.USD}
	gbp := model.CurrencyPair{From: model.EUR, To: model.GBP}

	assert.Equal(t, 9, res.Records)
	assert.Equal(t, 2, res.Windows)

	require.Len(t, res.Simple, 2)
	assert.Equal(t, gbp, res.Simple[0].Pair)
	assert.Equal(t, "0.87", res.Simple[0].Value.StringFixed(2))
	assert.Equal(t, usd, res.Simple[1].Pair)
	assert.Equal(t, "1.05", res.Simple[1].Value.StringFixed(2))

	require.Len(t, res.Exponential, 1)
	assert.Equal(t, usd, res.Exponential[0].Pair)
	assert.Equal(t, "1.20", res.Exponential[0].Value.StringFixed(2))
	assert.Equal(t, []model.CurrencyPair{gbp}, res.SkippedExponential)
}

func TestGraph_Run_WindowLimitsInput(t *testing.T) {
	src := newFakeReader(1, scenario(model.USD, "9.00", "9.00", "9.00", "1.00", "2.00", "3.00")...)
	g, err := NewGraph(3, nil)
	require.NoError(t, err)

	res, err := g.Run(context.Background(), src, 0)
	require.NoError(t, err)

	require.Len(t, res.Simple, 1)
	assert.Equal(t, "2.00", res.Simple[0].Value.StringFixed(2))
	assert.Empty(t, res.Exponential, "a window of 3 never reaches 6 points")
}

func TestGraph_Run_ReadFailure(t *testing.T) {
	src := newFakeReader(1, scenario(model.USD, "1.00")...)
	src.errs[0] = errors.New("connection refused")
	g, _ := NewGraph(5, nil)

	res, err := g.Run(context.Background(), src, 0)

	assert.Nil(t, res)
	assert.ErrorContains(t, err, "connection refused")
}

func TestGraph_Run_Misrouted(t *testing.T) {
	const partitions = 4
	var stray model.HistoryEntry
	for _, c := range []model.Currency{model.USD, model.GBP, model.JPY, model.CHF, model.SEK, model.NOK, model.PLN} {
		e := entry(c, 0, "1.00")
		if routing.PartitionOf(e.Key, partitions) != 0 {
			stray = e
			break
		}
	}
	require.NotEmpty(t, stray.Key.To, "no currency routed away from partition 0")

	src := newFakeReader(partitions)
	src.data[0] = []model.HistoryEntry{stray}
	g, _ := NewGraph(5, nil)

	_, err := g.Run(context.Background(), src, 0)

	assert.ErrorIs(t, err, ErrMisrouted)
}

func TestGraph_Run_MalformedRecord(t *testing.T) {
	bad := model.HistoryEntry{
		Key:   model.NewCurrencyKey(model.EUR, model.USD, day(0)),
		Close: decimal.NewFromInt(-3),
	}
	src := newFakeReader(1, bad)
	g, _ := NewGraph(5, nil)

	_, err := g.Run(context.Background(), src, 0)

	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestGraph_Run_PartitionOutOfRange(t *testing.T) {
	g, _ := NewGraph(5, nil)

	_, err := g.Run(context.Background(), newFakeReader(2), 2)

	assert.Error(t, err)
}

func TestGraph_Run_Cancelled(t *testing.T) {
	src := newFakeReader(1, scenario(model.USD, "1.00", "1.01", "1.02")...)
	g, _ := NewGraph(5, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := g.Run(ctx, src, 0)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGraph_Run_EmptyPartition(t *testing.T) {
	g, _ := NewGraph(5, nil)

	res, err := g.Run(context.Background(), newFakeReader(3), 1)

	require.NoError(t, err)
	assert.Zero(t, res.Records)
	assert.Empty(t, res.Simple)
	assert.Empty(t, res.Exponential)
}

func TestGuard_RecoversPanic(t *testing.T) {
	err := guard("collator", func() error { panic("boom") })()

	assert.ErrorIs(t, err, ErrStageFault)
	assert.ErrorContains(t, err, "boom")
}
