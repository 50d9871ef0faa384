package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisScoreStore is the Redis-backed score cache.
type RedisScoreStore struct {
	client *redis.Client
}

// NewRedisScoreStore connects to Redis and verifies the connection with a
// ping before returning.
func NewRedisScoreStore(ctx context.Context, addr, password string, db int, dialTimeout time.Duration) (*RedisScoreStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: dialTimeout,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}

	return &RedisScoreStore{client: client}, nil
}

func (s *RedisScoreStore) GetScore(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrScoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *RedisScoreStore) PutScore(ctx context.Context, key string, result []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, result, ttl).Err()
}

func (s *RedisScoreStore) Close() error {
	return s.client.Close()
}
