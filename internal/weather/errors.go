package weather

import (
	"errors"
	"fmt"

	"weather-cache/internal/upstream"
)

// Lookup failure taxonomy. Every failed lookup wraps exactly one of these
// sentinels, so callers can tell cache-layer problems from upstream-layer
// ones with errors.Is and still read a human-readable reason.
var (
	// ErrStoreUnavailable reports that the cache store could not be reached
	// or answered with a protocol error. Lookups do not fall through to the
	// upstream in this state.
	ErrStoreUnavailable = errors.New("cache store unavailable")

	// ErrCacheCorrupt reports a cache entry that exists but cannot be
	// decoded.
	ErrCacheCorrupt = errors.New("cache entry corrupt")

	// ErrUpstreamUnavailable reports a transport failure before any provider
	// response arrived.
	ErrUpstreamUnavailable = errors.New("weather provider unreachable")

	// ErrUpstreamRejected reports a non-success status from the provider;
	// the wrapped upstream.StatusError carries the status and raw body.
	ErrUpstreamRejected = errors.New("weather provider rejected the request")

	// ErrSchemaMismatch reports a success status whose body does not carry
	// the expected fields.
	ErrSchemaMismatch = errors.New("weather provider returned an unexpected response shape")
)

// mapUpstreamError folds an upstream client failure into the lookup taxonomy.
// A StatusError stays reachable with errors.As through ErrUpstreamRejected so
// callers can still read the status code and raw body.
func mapUpstreamError(err error) error {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, upstream.ErrSchema):
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	case errors.As(err, &statusErr):
		return fmt.Errorf("%w: %w", ErrUpstreamRejected, statusErr)
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
}
