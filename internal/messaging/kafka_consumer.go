package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/match-prediction-service/internal/models"
	"github.com/cypherlabdev/match-prediction-service/internal/service"
)

// messageReader is the subset of *kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// KafkaConsumer consumes fixture change events and keeps predictions current
type KafkaConsumer struct {
	reader  messageReader
	handler service.MatchEventHandler
	logger  zerolog.Logger
}

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "match_events"
	GroupID string   // e.g., "match-predictor"
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(
	config KafkaConsumerConfig,
	handler service.MatchEventHandler,
	logger zerolog.Logger,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1,    // events are small and infrequent
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &KafkaConsumer{
		reader:  reader,
		handler: handler,
		logger:  logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start consumes messages until ctx is cancelled. A message whose processing
// fails is logged and skipped without a commit of its own; the next successful
// commit on the same partition moves the group offset past it, so it is not
// redelivered.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("started consuming from Kafka")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info().Msg("stopping Kafka consumer")
				return nil
			}
			c.logger.Error().Err(err).Msg("failed to fetch message")
			continue
		}

		if err := c.processMessage(ctx, msg); err != nil {
			c.logger.Error().
				Err(err).
				Int64("offset", msg.Offset).
				Str("key", string(msg.Key)).
				Msg("failed to process message")
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error().Err(err).Msg("failed to commit message")
		}
	}
}

// processMessage decodes one event and hands it to the handler
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event models.MatchEventMessage
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if event.MatchID <= 0 {
		return fmt.Errorf("invalid match id %d", event.MatchID)
	}

	c.logger.Debug().
		Int64("match_id", event.MatchID).
		Str("event", event.Event).
		Msg("processing match event")

	if err := c.handler.HandleMatchEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to handle %s event for match %d: %w", event.Event, event.MatchID, err)
	}

	c.logger.Info().
		Int64("match_id", event.MatchID).
		Str("event", event.Event).
		Msg("processed match event")

	return nil
}

// Close closes the Kafka reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
