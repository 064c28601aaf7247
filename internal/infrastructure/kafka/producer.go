package kafka

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

type EventProducer interface {
	Send(ctx context.Context, key string, value []byte) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		// Async writes return before delivery; the completion hook is
		// where per-message failures surface.
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, msg := range messages {
				slog.Error("failed to deliver Kafka message",
					"topic", topic, "key", string(msg.Key), "error", err)
			}
		},
	}
	return &Producer{writer: writer, topic: topic}
}

// Send enqueues the message. Enqueue errors (cancelled context, oversized
// message) are returned; delivery errors land in the completion hook.
func (p *Producer) Send(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("failed to enqueue Kafka message", "topic", p.topic, "key", key, "error", err)
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		slog.Error("failed to close Kafka writer", "error", err)
		return err
	}
	return nil
}
