package port

import (
	"context"

	"fxaverages/internal/domain/model"
)

// FeedPort supplies historic closing prices for ingestion.
type FeedPort interface {
	Name() string
	Fetch(ctx context.Context) ([]model.HistoryEntry, error)
}
