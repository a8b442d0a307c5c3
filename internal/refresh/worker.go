package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"weather-cache/internal/models"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// Refresher is the slice of the weather service the worker drives.
type Refresher interface {
	Refresh(ctx context.Context, rawLocation string) (models.Weather, error)
}

// Worker handles refresh requests from the topic. Upstream calls run behind a
// circuit breaker: a provider outage should not have the background pipeline
// hammering it for every queued key while on-demand lookups still need
// whatever rate limit remains. The breaker guards refreshes only; lookups
// stay single-attempt and unguarded.
type Worker struct {
	service Refresher
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

func NewWorker(service Refresher, logger zerolog.Logger) *Worker {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weather-refresh",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Worker{
		service: service,
		breaker: breaker,
		logger:  logger.With().Str("component", "refresh.Worker").Logger(),
	}
}

// Handle processes one consumed record. Matches the consumer's handler
// signature.
func (w *Worker) Handle(ctx context.Context, key, value []byte) error {
	var req Request
	if err := json.Unmarshal(value, &req); err != nil {
		return fmt.Errorf("invalid refresh request (key=%s): %w", string(key), err)
	}
	if req.Location == "" {
		return fmt.Errorf("refresh request %s has empty location", req.ID)
	}

	_, err := w.breaker.Execute(func() (any, error) {
		return w.service.Refresh(ctx, req.Location)
	})
	if err != nil {
		return fmt.Errorf("refresh %s (id=%s): %w", req.Location, req.ID, err)
	}

	w.logger.Debug().Str("key", req.Location).Str("id", req.ID).Msg("refresh handled")
	return nil
}
