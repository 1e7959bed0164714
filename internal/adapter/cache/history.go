package cache

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/routing"
)

// HistoryStore keeps one hash per partition: history:{p} maps
// FROM:TO:YYYY-MM-DD to the closing price.
type HistoryStore struct {
	client     *redis.Client
	partitions int
}

func historyKey(partition int) string {
	return fmt.Sprintf("history:%d", partition)
}

func (s *HistoryStore) Partitions() int {
	return s.partitions
}

func (s *HistoryStore) Put(ctx context.Context, entries ...model.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	fields := make(map[string][]any, s.partitions)
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("failed to store %s: %w", e.Key, err)
		}
		e.Key.Date = model.Day(e.Key.Date)
		key := historyKey(routing.PartitionOf(e.Key, s.partitions))
		fields[key] = append(fields[key], e.Key.String(), e.Close.String())
	}

	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, values := range fields {
			pipe.HSet(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write history to redis: %w", err)
	}
	return nil
}

func (s *HistoryStore) ScanPartition(ctx context.Context, partition int) ([]model.HistoryEntry, error) {
	if partition < 0 || partition >= s.partitions {
		return nil, fmt.Errorf("partition %d out of range [0,%d)", partition, s.partitions)
	}

	raw, err := s.client.HGetAll(ctx, historyKey(partition)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history partition %d: %w", partition, err)
	}

	out := make([]model.HistoryEntry, 0, len(raw))
	for field, value := range raw {
		key, err := model.ParseCurrencyKey(field)
		if err != nil {
			return nil, fmt.Errorf("corrupt history field %q: %w", field, err)
		}
		price, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt price for %s: %w", field, err)
		}
		out = append(out, model.HistoryEntry{Key: key, Close: price})
	}
	// Fields are FROM:TO:YYYY-MM-DD, so string order is pair then date.
	slices.SortFunc(out, func(a, b model.HistoryEntry) int {
		as, bs := a.Key.String(), b.Key.String()
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func (s *HistoryStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close is a no-op; the connection belongs to RedisAdapter.
func (s *HistoryStore) Close() error {
	return nil
}
