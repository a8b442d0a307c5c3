package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request is the message published per popular key and consumed by the
// worker. The ID exists for tracing individual refreshes through logs.
type Request struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// TopSource yields the keys most worth refreshing, best first.
type TopSource interface {
	Top(ctx context.Context, n int) ([]string, error)
}

// RequestPublisher publishes records keyed by location.
type RequestPublisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Publisher periodically emits the top-N tracked keys as refresh requests.
type Publisher struct {
	source    TopSource
	producer  RequestPublisher
	topN      int
	interval  time.Duration
	scheduler *gocron.Scheduler
	logger    zerolog.Logger
}

func NewPublisher(source TopSource, producer RequestPublisher, topN int, interval time.Duration, logger zerolog.Logger) *Publisher {
	return &Publisher{
		source:    source,
		producer:  producer,
		topN:      topN,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger.With().Str("component", "refresh.Publisher").Logger(),
	}
}

// Start schedules PublishTop every interval and returns immediately.
func (p *Publisher) Start() error {
	_, err := p.scheduler.Every(p.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := p.PublishTop(ctx); err != nil {
			p.logger.Error().Err(err).Msg("refresh publish run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule refresh publisher: %w", err)
	}

	p.scheduler.StartAsync()
	p.logger.Info().Dur("interval", p.interval).Int("top_n", p.topN).Msg("refresh publisher started")
	return nil
}

func (p *Publisher) Stop() {
	p.scheduler.Stop()
	p.logger.Info().Msg("refresh publisher stopped")
}

// PublishTop runs one publish cycle: read the top keys, emit one request per
// key. A publish failure for one key does not stop the rest.
func (p *Publisher) PublishTop(ctx context.Context) error {
	keys, err := p.source.Top(ctx, p.topN)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		p.logger.Debug().Msg("no tracked lookups to refresh")
		return nil
	}

	for _, key := range keys {
		req := Request{ID: uuid.NewString(), Location: key}
		value, err := json.Marshal(req)
		if err != nil {
			p.logger.Error().Err(err).Str("key", key).Msg("marshal refresh request")
			continue
		}
		if err := p.producer.Publish(ctx, []byte(key), value); err != nil {
			p.logger.Error().Err(err).Str("key", key).Msg("publish refresh request")
			continue
		}
		p.logger.Debug().Str("key", key).Str("id", req.ID).Msg("refresh request published")
	}
	return nil
}
