package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fxaverages/internal/domain/model"
)

// RedisAdapter owns the connection shared by the redis-backed stores.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(addr, password string, db int) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisAdapter{client: client}, nil
}

func NewRedisAdapterFromClient(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (a *RedisAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *RedisAdapter) Close() error {
	return a.client.Close()
}

// HistoryStore returns the partitioned price history kept in this redis.
func (a *RedisAdapter) HistoryStore(partitions int) *HistoryStore {
	if partitions < 1 {
		partitions = 1
	}
	return &HistoryStore{client: a.client, partitions: partitions}
}

// ResultStore returns the hash holding one branch's averages.
func (a *RedisAdapter) ResultStore(kind model.AverageKind) *ResultStore {
	return &ResultStore{client: a.client, kind: kind}
}
