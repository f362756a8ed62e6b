package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is the producer-side contract; satisfied by *Producer and by
// test fakes.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event CloudEvent) error
}

// Producer publishes CloudEvents to Kafka.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer for the given brokers.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	return &Producer{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

// PublishEvent writes a single CloudEvent to the topic, keyed by event ID so
// retries of the same event land on the same partition.
func (p *Producer) PublishEvent(ctx context.Context, topic string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(event.ID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", event.Type),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
