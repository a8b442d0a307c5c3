// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is everything the process needs to start. Fields come from the
// environment, optionally seeded from a .env file in development.
type Config struct {
	// StoreBackend selects the cache store implementation. The refresh
	// pipeline and popularity tracking need redis; the other backends run
	// the lookup surface only.
	StoreBackend string `validate:"oneof=redis memcached memory"`

	// RedisURL is the cache store connection string, e.g.
	// redis://:password@localhost:6379/0.
	RedisURL string `validate:"required,uri"`

	// MemcachedAddrs lists memcached servers for the memcached backend.
	MemcachedAddrs []string `validate:"required_if=StoreBackend memcached"`

	// WeatherAPIKey is the upstream provider credential.
	WeatherAPIKey string `validate:"required"`

	// WeatherAPIURL overrides the provider endpoint; empty selects the
	// production endpoint.
	WeatherAPIURL string

	// CacheTTL is the lifetime of cache entries written by lookups.
	CacheTTL time.Duration `validate:"gt=0"`

	// KafkaBrokers enables the background refresh pipeline when non-empty.
	KafkaBrokers []string

	// RefreshTopic carries refresh requests from publisher to worker.
	RefreshTopic string `validate:"required"`

	// RefreshInterval is how often the publisher emits the top keys.
	RefreshInterval time.Duration `validate:"gt=0"`

	// RefreshTopN caps how many keys each publisher run emits.
	RefreshTopN int `validate:"gt=0"`

	Port string `validate:"required"`
}

// Load reads the environment (plus .env if present) into a validated Config.
func Load() (*Config, error) {
	// No .env is normal outside development.
	_ = godotenv.Load()

	ttl, err := getEnvDuration("CACHE_TTL", 28800*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := getEnvDuration("REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTopN, err := getEnvInt("REFRESH_TOP_N", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		StoreBackend:    getEnv("STORE_BACKEND", "redis"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		MemcachedAddrs:  splitList(os.Getenv("MEMCACHED_ADDRS")),
		WeatherAPIKey:   os.Getenv("WEATHERAPI_KEY"),
		WeatherAPIURL:   os.Getenv("WEATHERAPI_URL"),
		CacheTTL:        ttl,
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		RefreshTopic:    getEnv("REFRESH_KAFKA_TOPIC", "weather-refresh"),
		RefreshInterval: refreshInterval,
		RefreshTopN:     refreshTopN,
		Port:            getEnv("PORT", "8080"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RefreshEnabled reports whether the background refresh pipeline should run.
// It needs brokers to talk to and redis for the popularity tracker.
func (c *Config) RefreshEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.StoreBackend == "redis"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvDuration accepts both bare seconds ("28800") and Go durations ("8h").
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
