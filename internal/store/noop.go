package store

import (
	"context"
	"time"
)

// NoopScoreStore disables caching. Used when no Redis address is
// configured.
type NoopScoreStore struct{}

func (NoopScoreStore) GetScore(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrScoreNotFound
}

func (NoopScoreStore) PutScore(ctx context.Context, key string, result []byte, ttl time.Duration) error {
	return nil
}

func (NoopScoreStore) Close() error { return nil }
