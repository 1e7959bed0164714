package memory

import (
	"context"
	"slices"
	"sync"

	"fxaverages/internal/domain/model"
)

// ResultStore keeps one branch's averages in process memory.
type ResultStore struct {
	kind    model.AverageKind
	mu      sync.RWMutex
	results map[model.Currency]model.AverageResult
}

func NewResultStore(kind model.AverageKind) *ResultStore {
	return &ResultStore{
		kind:    kind,
		results: make(map[model.Currency]model.AverageResult),
	}
}

func (s *ResultStore) Kind() model.AverageKind {
	return s.kind
}

func (s *ResultStore) Replace(_ context.Context, results []model.AverageResult) error {
	fresh := make(map[model.Currency]model.AverageResult, len(results))
	for _, r := range results {
		r.Value = r.Value.Round(model.AveragePlaces)
		fresh[r.Currency()] = r
	}

	s.mu.Lock()
	s.results = fresh
	s.mu.Unlock()
	return nil
}

func (s *ResultStore) List(context.Context) ([]model.AverageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AverageResult, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.AverageResult) int {
		if a.Currency() < b.Currency() {
			return -1
		}
		if a.Currency() > b.Currency() {
			return 1
		}
		return 0
	})
	return out, nil
}

func (s *ResultStore) Get(_ context.Context, currency model.Currency) (*model.AverageResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[currency]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *ResultStore) Ping(context.Context) error {
	return nil
}

func (s *ResultStore) Close() error {
	return nil
}
