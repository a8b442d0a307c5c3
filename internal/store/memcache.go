package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/rs/zerolog"
)

// MemcacheStore implements Store on a memcached deployment. Normalized lookup
// keys contain no spaces or control characters, so they are valid memcached
// keys as-is.
type MemcacheStore struct {
	client *memcache.Client
}

// NewMemcacheStore connects to the given memcached servers and pings once to
// fail fast on a bad address.
func NewMemcacheStore(addrs []string, logger zerolog.Logger) (*MemcacheStore, error) {
	client := memcache.New(addrs...)
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("connect to memcached: %w", err)
	}

	logger.Info().Strs("addrs", addrs).Msg("memcached connected")
	return &MemcacheStore{client: client}, nil
}

func (s *MemcacheStore) Get(_ context.Context, key string) ([]byte, error) {
	item, err := s.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("memcached get %s: %w", key, err)
	}
	return item.Value, nil
}

func (s *MemcacheStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := &memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	}
	if err := s.client.Set(item); err != nil {
		return fmt.Errorf("memcached set %s: %w", key, err)
	}
	return nil
}

func (s *MemcacheStore) Ping(_ context.Context) error {
	if err := s.client.Ping(); err != nil {
		return fmt.Errorf("memcached ping: %w", err)
	}
	return nil
}

func (s *MemcacheStore) Close() error {
	return s.client.Close()
}
