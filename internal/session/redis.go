package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists values in Redis. Keys outlive the session TTL by the
// retention window so that Restore, not Redis, decides expiry.
type RedisStorage struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisStorage(client *redis.Client, retention time.Duration) *RedisStorage {
	return &RedisStorage{client: client, retention: retention}
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoValue
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStorage) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, key, value, s.retention).Err()
}

func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
