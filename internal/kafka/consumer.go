package kafka

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Consumer reads a single topic within a consumer group and hands each record
// to a handler.
type Consumer struct {
	topic  string
	client *kgo.Client
	logger zerolog.Logger
}

func NewConsumer(brokers []string, topic, group string, logger zerolog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}

	logger = logger.With().Str("component", "kafka.Consumer").Str("topic", topic).Str("group", group).Logger()
	logger.Info().Strs("brokers", brokers).Msg("kafka consumer initialized")
	return &Consumer{topic: topic, client: client, logger: logger}, nil
}

// Start polls in its own goroutine until ctx is cancelled. Handler errors are
// logged; the record is not re-delivered.
func (c *Consumer) Start(ctx context.Context, handler func(ctx context.Context, key, value []byte) error) {
	go func() {
		for {
			fetches := c.client.PollFetches(ctx)
			if ctx.Err() != nil {
				return
			}
			if errs := fetches.Errors(); len(errs) > 0 {
				for _, fe := range errs {
					c.logger.Error().Err(fe.Err).Str("topic", fe.Topic).Msg("kafka fetch error")
				}
			}
			iter := fetches.RecordIter()
			for !iter.Done() {
				record := iter.Next()
				if err := handler(ctx, record.Key, record.Value); err != nil {
					c.logger.Error().Err(err).Str("key", string(record.Key)).Msg("handler failed")
				}
			}
		}
	}()
}

func (c *Consumer) Stop() {
	c.client.Close()
}
