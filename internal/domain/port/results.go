package port

import (
	"context"

	"fxaverages/internal/domain/model"
)

// ResultStore holds one branch's averages, keyed by target currency.
type ResultStore interface {
	Kind() model.AverageKind
	// Replace overwrites the whole store with results.
	Replace(ctx context.Context, results []model.AverageResult) error
	List(ctx context.Context) ([]model.AverageResult, error)
	// Get returns nil, nil when the currency has no result.
	Get(ctx context.Context, currency model.Currency) (*model.AverageResult, error)
	Ping(ctx context.Context) error
	Close() error
}

type JobLog interface {
	SaveJobReport(ctx context.Context, report *model.JobReport) error
	RecentJobs(ctx context.Context, limit int) ([]model.JobReport, error)
	Ping(ctx context.Context) error
}
