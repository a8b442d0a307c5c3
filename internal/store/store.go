// Package store abstracts the key-value store backing the weather cache.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or its entry has
// expired. Any other Get error means the store itself failed; callers must
// not treat those as misses.
var ErrNotFound = errors.New("store: key not found")

// Store is the contract every cache backend satisfies. All operations are
// single-attempt: no retries, no backoff. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns the raw bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL stores value under key, overwriting any existing entry and
	// restarting its expiry countdown.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping probes liveness of the backing store. Only the status surface
	// calls it; the lookup path never does.
	Ping(ctx context.Context) error

	// Close releases the underlying connection state.
	Close() error
}
