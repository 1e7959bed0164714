package usecase

import (
	"context"
	"fmt"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
)

// AverageUseCase reads published averages.
type AverageUseCase struct {
	stores map[model.AverageKind]port.ResultStore
}

func NewAverageUseCase(simple, exponential port.ResultStore) *AverageUseCase {
	return &AverageUseCase{
		stores: map[model.AverageKind]port.ResultStore{
			model.SimpleAverage:      simple,
			model.ExponentialAverage: exponential,
		},
	}
}

func (uc *AverageUseCase) List(ctx context.Context, kind model.AverageKind) ([]model.AverageResult, error) {
	store, err := uc.store(kind)
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// Get returns nil, nil when currency has no average.
func (uc *AverageUseCase) Get(ctx context.Context, kind model.AverageKind, currency model.Currency) (*model.AverageResult, error) {
	store, err := uc.store(kind)
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, currency)
}

func (uc *AverageUseCase) store(kind model.AverageKind) (port.ResultStore, error) {
	store, ok := uc.stores[kind]
	if !ok || store == nil {
		return nil, fmt.Errorf("no result store for %q", kind)
	}
	return store, nil
}
