package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"weather-cache/internal/bootstrap"
	"weather-cache/internal/config"
	"weather-cache/internal/handlers"
	"weather-cache/internal/kafka"
	"weather-cache/internal/refresh"
	"weather-cache/internal/store"
	"weather-cache/internal/upstream"
	"weather-cache/internal/weather"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// ------------------------
	// Cache store
	// ------------------------
	var (
		cacheStore store.Store
		tracker    *refresh.RedisTracker
	)
	switch cfg.StoreBackend {
	case "memcached":
		cacheStore, err = store.NewMemcacheStore(cfg.MemcachedAddrs, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("memcached connection failed")
		}
	case "memory":
		cacheStore = store.NewMemoryStore()
		logger.Info().Msg("using in-process memory store")
	default:
		redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		cacheStore = redisStore
		tracker = refresh.NewRedisTracker(redisStore.Client())
	}

	// ------------------------
	// Lookup core
	// ------------------------
	upstreamClient := upstream.NewClient(
		&http.Client{Timeout: 10 * time.Second},
		cfg.WeatherAPIKey,
		cfg.WeatherAPIURL,
	)
	service := weather.NewService(cacheStore, upstreamClient, cfg.CacheTTL, logger)
	if tracker != nil {
		service = service.WithTracker(tracker)
	}

	// ------------------------
	// Refresh pipeline (optional)
	// ------------------------
	components := bootstrap.Components{Store: cacheStore}

	if cfg.RefreshEnabled() {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.RefreshTopic, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("kafka producer init failed")
		}
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.RefreshTopic, "weather-refresh-worker", logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("kafka consumer init failed")
		}

		workerCtx, cancelWorkers := context.WithCancel(context.Background())
		consumer.Start(workerCtx, refresh.NewWorker(service, logger).Handle)

		publisher := refresh.NewPublisher(tracker, producer, cfg.RefreshTopN, cfg.RefreshInterval, logger)
		if err := publisher.Start(); err != nil {
			logger.Fatal().Err(err).Msg("refresh publisher start failed")
		}

		components.Producer = producer
		components.Consumer = consumer
		components.Publisher = publisher
		components.CancelWorkers = cancelWorkers
	} else {
		logger.Info().Msg("no kafka brokers configured; refresh pipeline disabled")
	}

	// ------------------------
	// HTTP server
	// ------------------------
	router := bootstrap.InitRoutes(handlers.NewWeatherHandler(service, logger))
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	components.Server = srv

	done := bootstrap.GracefulShutdown(components, logger)

	logger.Info().Str("port", cfg.Port).Msg("server started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	<-done
	logger.Info().Msg("server stopped")
}
