package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
	"fxaverages/internal/domain/routing"
)

var ErrEmptyFeed = errors.New("feed returned no prices")

// FeedSource resolves the feed for the active mode.
type FeedSource interface {
	GetCurrentMode() model.FeedMode
	Feed(mode model.FeedMode) port.FeedPort
}

type LoadResult struct {
	Mode    model.FeedMode `json:"mode"`
	Feed    string         `json:"feed"`
	Entries int            `json:"entries"`
	Elapsed time.Duration  `json:"elapsed"`
}

// CurrencyUseCase browses and loads the price history.
type CurrencyUseCase struct {
	history port.HistoryStore
	feeds   FeedSource
	logger  *slog.Logger
}

func NewCurrencyUseCase(history port.HistoryStore, feeds FeedSource, logger *slog.Logger) *CurrencyUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CurrencyUseCase{
		history: history,
		feeds:   feeds,
		logger:  logger.With("component", "currency_usecase"),
	}
}

// Pairs lists every stored currency pair in order.
func (uc *CurrencyUseCase) Pairs(ctx context.Context) ([]model.CurrencyPair, error) {
	seen := make(map[model.CurrencyPair]struct{})
	for p := 0; p < uc.history.Partitions(); p++ {
		entries, err := uc.history.ScanPartition(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partition %d: %w", p, err)
		}
		for _, e := range entries {
			seen[e.Key.Pair()] = struct{}{}
		}
	}

	pairs := make([]model.CurrencyPair, 0, len(seen))
	for pair := range seen {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, comparePairs)
	return pairs, nil
}

// History returns the stored prices of pair, newest first. Only the partition
// owning the pair is read.
func (uc *CurrencyUseCase) History(ctx context.Context, pair model.CurrencyPair) ([]model.CurrencyPrice, error) {
	key := model.CurrencyKey{From: pair.From, To: pair.To}
	p := routing.PartitionOf(key, uc.history.Partitions())

	entries, err := uc.history.ScanPartition(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to scan partition %d: %w", p, err)
	}

	var out []model.CurrencyPrice
	for _, e := range entries {
		if e.Key.Pair() != pair {
			continue
		}
		out = append(out, model.CurrencyPrice{
			Pair:  pair,
			Date:  e.Key.Date.Format(model.DateLayout),
			Close: e.Close,
		})
	}
	slices.SortFunc(out, func(a, b model.CurrencyPrice) int {
		// DateLayout sorts lexically.
		if a.Date > b.Date {
			return -1
		}
		if a.Date < b.Date {
			return 1
		}
		return 0
	})
	return out, nil
}

// LoadFeed fetches the active mode's feed into the history store. A failing
// live feed falls back to the snapshot.
func (uc *CurrencyUseCase) LoadFeed(ctx context.Context) (*LoadResult, error) {
	start := time.Now()
	mode := uc.feeds.GetCurrentMode()

	feed := uc.feeds.Feed(mode)
	if feed == nil {
		return nil, fmt.Errorf("no feed configured for mode %q", mode)
	}

	entries, err := feed.Fetch(ctx)
	if err != nil && mode == model.LiveFeed {
		uc.logger.Warn("live feed failed, falling back to snapshot", "feed", feed.Name(), "error", err)
		if snapshot := uc.feeds.Feed(model.SnapshotFeed); snapshot != nil {
			feed = snapshot
			entries, err = feed.Fetch(ctx)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s feed: %w", feed.Name(), err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFeed, feed.Name())
	}

	if err := uc.history.Put(ctx, entries...); err != nil {
		return nil, fmt.Errorf("failed to store feed: %w", err)
	}

	res := &LoadResult{
		Mode:    mode,
		Feed:    feed.Name(),
		Entries: len(entries),
		Elapsed: time.Since(start),
	}
	uc.logger.Info("feed loaded", "mode", mode, "feed", res.Feed, "entries", res.Entries, "elapsed", res.Elapsed)
	return res, nil
}

func comparePairs(a, b model.CurrencyPair) int {
	switch {
	case a == b:
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}
