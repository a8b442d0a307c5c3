package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather-cache/internal/bootstrap"
	"weather-cache/internal/handlers"
	"weather-cache/internal/models"
	"weather-cache/internal/store"
	"weather-cache/internal/upstream"
	"weather-cache/internal/weather"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentNY = `{"location":{"name":"New York","region":"NY"},"current":{"temp_c":21.0,"condition":{"text":"Sunny"}}}`

func redisOrSkip(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

// TestLookup_EndToEnd drives the whole chain: HTTP surface → orchestrator →
// redis miss → fake upstream → redis write, then checks the persisted entry
// and its TTL, then verifies the second request is served without another
// upstream round-trip.
func TestLookup_EndToEnd(t *testing.T) {
	ctx := context.Background()
	rdb := redisOrSkip(t)
	require.NoError(t, rdb.Del(ctx, "weather:New%20York").Err())

	upstreamCalls := 0
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		assert.Contains(t, r.URL.RawQuery, "q=New%20York")
		_, _ = w.Write([]byte(currentNY))
	}))
	defer upstreamSrv.Close()

	cacheStore := store.NewRedisStoreFromClient(rdb)
	client := upstream.NewClient(upstreamSrv.Client(), "test-key", upstreamSrv.URL)
	service := weather.NewService(cacheStore, client, 0, zerolog.Nop())

	router := bootstrap.InitRoutes(handlers.NewWeatherHandler(service, zerolog.Nop()))
	srv := httptest.NewServer(router)
	defer srv.Close()

	get := func() models.Weather {
		t.Helper()
		resp, err := http.Get(srv.URL + "/weather?location=New+York")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var record models.Weather
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
		return record
	}

	want := models.Weather{Location: "New York", Region: "NY", TempC: 21.0, Condition: "Sunny"}

	assert.Equal(t, want, get())
	assert.Equal(t, 1, upstreamCalls)

	// The entry is persisted under the normalized key with the 8h TTL.
	var stored models.Weather
	err := retry.Do(
		func() error {
			data, err := rdb.Get(ctx, "weather:New%20York").Bytes()
			if err != nil {
				return err
			}
			return json.Unmarshal(data, &stored)
		},
		retry.Attempts(50),
		retry.Delay(100*time.Millisecond),
	)
	require.NoError(t, err)
	assert.Equal(t, want, stored)

	ttl, err := rdb.TTL(ctx, "weather:New%20York").Result()
	require.NoError(t, err)
	assert.InDelta(t, (28800 * time.Second).Seconds(), ttl.Seconds(), 60)

	// Second request is a hit: no new upstream traffic.
	assert.Equal(t, want, get())
	assert.Equal(t, 1, upstreamCalls)
}

func TestStatus_AgainstRealStore(t *testing.T) {
	rdb := redisOrSkip(t)

	service := weather.NewService(
		store.NewRedisStoreFromClient(rdb),
		upstream.NewClient(&http.Client{}, "unused", ""),
		0,
		zerolog.Nop(),
	)

	router := bootstrap.InitRoutes(handlers.NewWeatherHandler(service, zerolog.Nop()))
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["status"], "reachable")
}

func TestLookup_RedisStoreMissVsCorrupt(t *testing.T) {
	ctx := context.Background()
	rdb := redisOrSkip(t)

	cacheStore := store.NewRedisStoreFromClient(rdb)

	t.Run("absent key reads as ErrNotFound", func(t *testing.T) {
		require.NoError(t, rdb.Del(ctx, "weather:Nowhere").Err())
		_, err := cacheStore.Get(ctx, "weather:Nowhere")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("corrupt entry fails the lookup without a re-fetch", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "weather:Broken", "{not json", time.Minute).Err())
		t.Cleanup(func() { rdb.Del(ctx, "weather:Broken") })

		upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("upstream must not be called for a corrupt entry")
		}))
		defer upstreamSrv.Close()

		service := weather.NewService(
			cacheStore,
			upstream.NewClient(upstreamSrv.Client(), "test-key", upstreamSrv.URL),
			0,
			zerolog.Nop(),
		)

		_, err := service.Lookup(ctx, "Broken")
		assert.ErrorIs(t, err, weather.ErrCacheCorrupt)
	})
}
