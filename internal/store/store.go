// Package store caches analysis results keyed by image content and
// analysis parameters, so repeated audits of the same asset skip the
// expensive clustering and OCR passes.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrScoreNotFound is returned when no cached result exists for a key.
var ErrScoreNotFound = errors.New("score not found")

// ScoreStore persists serialized analysis results with a TTL.
type ScoreStore interface {
	GetScore(ctx context.Context, key string) ([]byte, error)
	PutScore(ctx context.Context, key string, result []byte, ttl time.Duration) error
	Close() error
}

// CacheKey derives a deterministic key from the analysis kind, the raw
// image bytes and the parameters that affect the result.
func CacheKey(kind string, imageData []byte, params ...string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write(imageData)
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
