package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"fxaverages/internal/domain/model"
)

// ResultStore keeps one branch's averages in a hash named after the branch,
// field = target currency, value = average with two decimals.
type ResultStore struct {
	client *redis.Client
	kind   model.AverageKind
}

func (s *ResultStore) Kind() model.AverageKind {
	return s.kind
}

func (s *ResultStore) key() string {
	return s.kind.String()
}

// Replace swaps the hash contents in one MULTI/EXEC.
func (s *ResultStore) Replace(ctx context.Context, results []model.AverageResult) error {
	values := make([]any, 0, len(results)*2)
	for _, r := range results {
		values = append(values, r.Currency().String(), r.Value.StringFixed(model.AveragePlaces))
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key())
		if len(values) > 0 {
			pipe.HSet(ctx, s.key(), values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s in redis: %w", s.kind, err)
	}
	return nil
}

func (s *ResultStore) List(ctx context.Context) ([]model.AverageResult, error) {
	raw, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from redis: %w", s.kind, err)
	}

	out := make([]model.AverageResult, 0, len(raw))
	for field, value := range raw {
		r, err := decodeResult(field, value)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b model.AverageResult) int {
		switch {
		case a.Currency() < b.Currency():
			return -1
		case a.Currency() > b.Currency():
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func (s *ResultStore) Get(ctx context.Context, currency model.Currency) (*model.AverageResult, error) {
	value, err := s.client.HGet(ctx, s.key(), currency.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s %s from redis: %w", s.kind, currency, err)
	}
	r, err := decodeResult(currency.String(), value)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ResultStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ResultStore) Close() error {
	return nil
}

// The source currency is always EUR; only the target is stored.
func decodeResult(field, value string) (model.AverageResult, error) {
	to, err := model.ParseCurrency(field)
	if err != nil {
		return model.AverageResult{}, fmt.Errorf("corrupt result field %q: %w", field, err)
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return model.AverageResult{}, fmt.Errorf("corrupt average for %s: %w", field, err)
	}
	return model.AverageResult{
		Pair:  model.CurrencyPair{From: model.EUR, To: to},
		Value: v,
	}, nil
}
