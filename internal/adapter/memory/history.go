package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/routing"
)

// HistoryStore keeps closing prices in process memory, one map per partition.
type HistoryStore struct {
	mu         sync.RWMutex
	partitions []map[model.CurrencyKey]model.HistoryEntry
}

func NewHistoryStore(partitions int) *HistoryStore {
	if partitions < 1 {
		partitions = 1
	}
	s := &HistoryStore{partitions: make([]map[model.CurrencyKey]model.HistoryEntry, partitions)}
	for i := range s.partitions {
		s.partitions[i] = make(map[model.CurrencyKey]model.HistoryEntry)
	}
	return s
}

func (s *HistoryStore) Partitions() int {
	return len(s.partitions)
}

func (s *HistoryStore) Put(_ context.Context, entries ...model.HistoryEntry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("failed to store %s: %w", e.Key, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		e.Key.Date = model.Day(e.Key.Date)
		p := routing.PartitionOf(e.Key, len(s.partitions))
		s.partitions[p][e.Key] = e
	}
	return nil
}

// ScanPartition returns a snapshot of the partition ordered by key.
func (s *HistoryStore) ScanPartition(_ context.Context, partition int) ([]model.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if partition < 0 || partition >= len(s.partitions) {
		return nil, fmt.Errorf("partition %d out of range [0,%d)", partition, len(s.partitions))
	}
	out := make([]model.HistoryEntry, 0, len(s.partitions[partition]))
	for _, e := range s.partitions[partition] {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b model.HistoryEntry) int {
		if a.Key.Pair() != b.Key.Pair() {
			if a.Key.Pair().Less(b.Key.Pair()) {
				return -1
			}
			return 1
		}
		return a.Key.Date.Compare(b.Key.Date)
	})
	return out, nil
}

func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.partitions {
		n += len(p)
	}
	return n
}

func (s *HistoryStore) Ping(context.Context) error {
	return nil
}

func (s *HistoryStore) Close() error {
	return nil
}
