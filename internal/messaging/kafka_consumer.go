package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/match-analytics-service/internal/models"
	"github.com/cypherlabdev/match-analytics-service/internal/service"
)

// KafkaConsumer consumes fixture batches from Kafka and runs them through
// the analytics pipeline
type KafkaConsumer struct {
	reader    *kafka.Reader
	processor service.FixtureProcessor
	logger    zerolog.Logger
}

// KafkaConsumerConfig holds Kafka consumer configuration
type KafkaConsumerConfig struct {
	Brokers []string // e.g., ["localhost:9092"]
	Topic   string   // e.g., "match_fixtures"
	GroupID string   // e.g., "match-analytics"
}

// NewKafkaConsumer creates a new Kafka consumer
func NewKafkaConsumer(
	config KafkaConsumerConfig,
	processor service.FixtureProcessor,
	logger zerolog.Logger,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.GroupID,
		MinBytes:       1e3,  // 1KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1000, // Commit every 1 second
	})

	return &KafkaConsumer{
		reader:    reader,
		processor: processor,
		logger:    logger.With().Str("component", "kafka_consumer").Logger(),
	}
}

// Start begins consuming messages from Kafka
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("topic", c.reader.Config().Topic).
		Str("group_id", c.reader.Config().GroupID).
		Msg("started consuming from Kafka")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("stopping Kafka consumer")
			return c.reader.Close()

		default:
			// Read message
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if err == context.Canceled {
					return nil
				}
				c.logger.Error().Err(err).Msg("failed to fetch message")
				continue
			}

			// Process message
			if err := c.processMessage(ctx, msg); err != nil {
				c.logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Str("key", string(msg.Key)).
					Msg("failed to process message")
				// Don't commit if processing failed
				continue
			}

			// Commit message
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error().Err(err).Msg("failed to commit message")
			}
		}
	}
}

// processMessage processes a single Kafka message
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	// Parse message
	var envelope models.FixtureEnvelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	c.logger.Debug().
		Int("fixture_count", len(envelope.Fixtures)).
		Str("batch_id", envelope.BatchID).
		Msg("processing fixture batch")

	// Bad fixtures are skipped inside the pipeline; an error here means the
	// whole batch should be redelivered.
	predictions, err := c.processor.ProcessBatch(ctx, envelope)
	if err != nil {
		return fmt.Errorf("failed to process fixtures: %w", err)
	}

	c.logger.Info().
		Int("input_count", len(envelope.Fixtures)).
		Int("output_count", len(predictions)).
		Str("batch_id", envelope.BatchID).
		Msg("consumed fixture batch")

	return nil
}

// Close closes the Kafka reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
