// Package cachex is the small key/value and locking surface the ERP needs
// from a cache: VAT and Discogs lookups are cached here and stock
// adjustments are serialised with short-lived locks. A Redis backend is used
// in production and an in-memory one in tests and single-node setups.
package cachex

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cachex: miss")

// Cache stores opaque values with a TTL. A zero TTL means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Locker hands out advisory locks identified by a caller-chosen token so
// that only the holder can release them.
type Locker interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// Store is a Cache that can also lock, plus lifecycle hooks.
type Store interface {
	Cache
	Locker
	Ping(ctx context.Context) error
	Close() error
}

// GetJSON decodes a cached JSON value into T.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, error) {
	var out T

	b, err := c.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		// Treat undecodable entries as a miss so callers refetch.
		_ = c.Delete(ctx, key)
		return out, ErrMiss
	}
	return out, nil
}

// SetJSON encodes v as JSON and stores it.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}
