// Package kafka wraps the franz-go client for the refresh pipeline.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records to a single topic.
type Producer struct {
	topic  string
	client *kgo.Client
	logger zerolog.Logger
}

func NewProducer(brokers []string, topic string, logger zerolog.Logger) (*Producer, error) {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	logger = logger.With().Str("component", "kafka.Producer").Str("topic", topic).Logger()
	logger.Info().Strs("brokers", brokers).Msg("kafka producer initialized")
	return &Producer{topic: topic, client: client, logger: logger}, nil
}

// Publish produces one record synchronously. Single attempt beyond the
// client's own in-flight handling; an error means the record was not accepted.
func (p *Producer) Publish(ctx context.Context, key, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	record := &kgo.Record{Topic: p.topic, Key: key, Value: value}
	results := p.client.ProduceSync(ctx, record)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	p.logger.Debug().Str("key", string(key)).Msg("record published")
	return nil
}

func (p *Producer) Close() {
	p.client.Close()
}
