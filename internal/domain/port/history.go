package port

import (
	"context"

	"fxaverages/internal/domain/model"
)

// HistoryStore is the partitioned store of daily closing prices.
// Implementations place every entry in routing.PartitionOf(key, Partitions()).
type HistoryStore interface {
	Partitions() int
	Put(ctx context.Context, entries ...model.HistoryEntry) error
	ScanPartition(ctx context.Context, partition int) ([]model.HistoryEntry, error)
	Ping(ctx context.Context) error
	Close() error
}
