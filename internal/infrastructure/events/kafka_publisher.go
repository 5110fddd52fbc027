package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/config"
	"finstatements.com/internal/infrastructure/logger"
)

const eventTypeStatementCreated = "statement.created"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes statement events keyed by user ID, so one
// user's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger logger.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic
func NewKafkaPublisher(cfg config.Kafka, logger logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

// Publish writes event to Kafka
func (p *KafkaPublisher) Publish(ctx context.Context, event entity.StatementCreated) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	p.logger.LogDebug(ctx, "Statement event published",
		"statement_id", event.StatementID,
		"user_id", event.UserID)

	return nil
}

// Close flushes pending writes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event entity.StatementCreated) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeStatementCreated)},
		},
		Time: event.OccurredAt,
	}, nil
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, entity.StatementCreated) error {
	return nil
}

var (
	_ port.EventPublisher = (*KafkaPublisher)(nil)
	_ port.EventPublisher = NoopPublisher{}
)
