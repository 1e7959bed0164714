package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"fxaverages/internal/domain/model"
	"fxaverages/internal/domain/port"
)

// SinkWriter publishes one branch's averages into its result store.
type SinkWriter struct {
	store  port.ResultStore
	logger *slog.Logger
}

func NewSinkWriter(store port.ResultStore, logger *slog.Logger) *SinkWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SinkWriter{
		store:  store,
		logger: logger.With("sink", store.Kind().String()),
	}
}

// Write replaces the store contents with results.
func (w *SinkWriter) Write(ctx context.Context, results []model.AverageResult) error {
	sorted := slices.Clone(results)
	sortResults(sorted)

	if err := w.store.Replace(ctx, sorted); err != nil {
		return fmt.Errorf("failed to write %s results: %w", w.store.Kind(), err)
	}
	w.logger.Info("results written", "currencies", len(sorted))
	return nil
}
