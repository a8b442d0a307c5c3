// Package refresh keeps popular cache entries warm: a tracker counts lookups,
// a scheduled publisher emits the top keys to Kafka, and a worker re-fetches
// them before their cache entries expire. The pipeline is optional and never
// participates in the on-demand lookup path.
package refresh

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// trackerKey is the sorted set scoring lookup counts per normalized key.
const trackerKey = "weather:lookups"

// RedisTracker counts lookups in a redis sorted set. It shares the service's
// redis connection; a sorted set is outside the Store port on purpose, since
// only this pipeline needs it.
type RedisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

// Touch increments the lookup count for a normalized key.
func (t *RedisTracker) Touch(ctx context.Context, key string) error {
	if err := t.client.ZIncrBy(ctx, trackerKey, 1, key).Err(); err != nil {
		return fmt.Errorf("bump lookup count for %s: %w", key, err)
	}
	return nil
}

// Top returns up to n keys ordered by descending lookup count.
func (t *RedisTracker) Top(ctx context.Context, n int) ([]string, error) {
	keys, err := t.client.ZRevRange(ctx, trackerKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read top lookups: %w", err)
	}
	return keys, nil
}
