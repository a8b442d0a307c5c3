// Package bootstrap wires components together and tears them down in order.
package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-cache/internal/kafka"
	"weather-cache/internal/refresh"
	"weather-cache/internal/store"

	"github.com/rs/zerolog"
)

// Components holds everything that needs an orderly teardown. Nil fields are
// skipped, so a run without the refresh pipeline passes only the server and
// store.
type Components struct {
	Server    *http.Server
	Store     store.Store
	Publisher *refresh.Publisher
	Producer  *kafka.Producer
	Consumer  *kafka.Consumer

	// CancelWorkers stops the consumer poll loop before its client closes.
	CancelWorkers context.CancelFunc
}

// GracefulShutdown waits for SIGINT/SIGTERM in its own goroutine, then halts
// the refresh pipeline, drains in-flight HTTP requests, and closes the store
// last so requests still being served can reach it. The returned channel
// closes when teardown is complete.
func GracefulShutdown(c Components, logger zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info().Msg("shutting down")

		if c.Publisher != nil {
			c.Publisher.Stop()
		}
		if c.CancelWorkers != nil {
			c.CancelWorkers()
		}
		if c.Consumer != nil {
			c.Consumer.Stop()
		}
		if c.Producer != nil {
			c.Producer.Close()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("http server shutdown")
		}

		if c.Store != nil {
			if err := c.Store.Close(); err != nil {
				logger.Error().Err(err).Msg("store close")
			}
		}
	}()
	return done
}
