// Package weather implements the cache-aside lookup core.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"weather-cache/internal/models"
	"weather-cache/internal/store"

	"github.com/rs/zerolog"
)

// DefaultTTL is how long a cache entry written by a lookup stays valid.
const DefaultTTL = 28800 * time.Second

// Fetcher is the upstream provider contract consumed by the Service. One
// synchronous attempt per call; the key is already normalized.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (models.Weather, error)
}

// Tracker records which lookup keys are being asked for. Implementations must
// tolerate being called concurrently; failures are the Service's to swallow.
type Tracker interface {
	Touch(ctx context.Context, key string) error
}

// Service is the cache-aside orchestrator. It holds no mutable state of its
// own, so one instance serves concurrent lookups without locking.
type Service struct {
	store    store.Store
	upstream Fetcher
	tracker  Tracker
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewService wires a store and an upstream client into an orchestrator.
// A zero ttl selects DefaultTTL; tracker may be nil.
func NewService(st store.Store, up Fetcher, ttl time.Duration, logger zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:    st,
		upstream: up,
		ttl:      ttl,
		logger:   logger.With().Str("component", "weather.Service").Logger(),
	}
}

// WithTracker attaches a popularity tracker. Tracking is best-effort and never
// affects lookup results.
func (s *Service) WithTracker(tracker Tracker) *Service {
	s.tracker = tracker
	return s
}

// Lookup answers a single weather query for a raw location string.
//
// The decision tree is strictly linear: normalize, read the cache, on miss
// fetch upstream and memoize. Policy choices worth knowing about:
//   - a store failure on read is NOT a miss; the lookup fails with
//     ErrStoreUnavailable and the upstream is never called, so a store outage
//     stays visible instead of silently turning into unconditional upstream
//     traffic;
//   - a cache entry that will not decode fails the lookup with
//     ErrCacheCorrupt rather than falling through, since corrupt data is
//     worth surfacing, not masking;
//   - a failed cache write after a successful fetch is logged and swallowed,
//     because the caller's question has already been answered. That miss is
//     simply not memoized.
func (s *Service) Lookup(ctx context.Context, rawLocation string) (models.Weather, error) {
	key := NormalizeLocation(rawLocation)
	cacheKey := KeyPrefix + key

	data, err := s.store.Get(ctx, cacheKey)
	switch {
	case err == nil:
		var record models.Weather
		if err := json.Unmarshal(data, &record); err != nil {
			return models.Weather{}, fmt.Errorf("%w: key %s: %v", ErrCacheCorrupt, cacheKey, err)
		}
		s.logger.Debug().Str("key", key).Msg("cache hit")
		s.touch(key)
		return record, nil

	case errors.Is(err, store.ErrNotFound):
		// miss, fall through to the upstream

	default:
		return models.Weather{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	record, err := s.upstream.Fetch(ctx, key)
	if err != nil {
		return models.Weather{}, mapUpstreamError(err)
	}

	if err := s.writeEntry(ctx, cacheKey, record); err != nil {
		// The only absorbed sub-failure: the answer is already in hand.
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed; result not memoized")
	}

	s.logger.Debug().Str("key", key).Msg("cache miss served from upstream")
	s.touch(key)
	return record, nil
}

// Refresh re-fetches a location from the upstream and rewrites its cache
// entry, skipping the cache read. The refresh worker is the only caller.
// Unlike Lookup, a cache-write failure here is returned: the write is the
// entire point of a refresh.
func (s *Service) Refresh(ctx context.Context, rawLocation string) (models.Weather, error) {
	key := NormalizeLocation(rawLocation)

	record, err := s.upstream.Fetch(ctx, key)
	if err != nil {
		return models.Weather{}, mapUpstreamError(err)
	}

	if err := s.writeEntry(ctx, KeyPrefix+key, record); err != nil {
		return models.Weather{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info().Str("key", key).Float64("temp_c", record.TempC).Msg("cache entry refreshed")
	return record, nil
}

// Status probes the cache store and renders the outcome as a human-readable
// message for the operational health page. Only the liveness probe runs here;
// the lookup path never pings.
func (s *Service) Status(ctx context.Context) (string, error) {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Sprintf("cache store unreachable: %v", err), fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return "cache store reachable", nil
}

func (s *Service) writeEntry(ctx context.Context, cacheKey string, record models.Weather) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return s.store.SetWithTTL(ctx, cacheKey, value, s.ttl)
}

// touch bumps the popularity tracker off the request path. Tracker errors
// never fail a lookup.
func (s *Service) touch(key string) {
	if s.tracker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tracker.Touch(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("popularity bump failed")
		}
	}()
}
