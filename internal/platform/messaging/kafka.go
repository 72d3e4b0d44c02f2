package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Bus is the broker adapter shared by the outbox relay (publish side) and the
// consumer supervisor (subscribe side). Queue naming convention is
// "<service>.<event_name>"; the same name is used as topic and as queue.
type Bus struct {
	brokers []string
	writer  *kafka.Writer
	logger  *slog.Logger
}

func NewBus(brokers []string, logger *slog.Logger) (*Bus, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}, nil
}

// Publish writes one message to the named destination. The key keeps
// per-aggregate ordering stable across partitions.
func (b *Bus) Publish(ctx context.Context, destination string, key []byte, payload []byte) error {
	err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: destination,
		Key:   key,
		Value: payload,
	})
	if err != nil {
		b.logger.Error("broker publish failed",
			"event", "messaging_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"destination", destination,
			"error", err.Error(),
		)
		return fmt.Errorf("publish to %s: %w", destination, err)
	}
	return nil
}

// Subscribe opens a sequential delivery stream from the named queue.
// Offsets are committed only via Delivery.Ack, giving at-least-once delivery.
func (b *Bus) Subscribe(queue string, group string) *Subscription {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  b.brokers,
		Topic:    queue,
		GroupID:  group,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Subscription{reader: reader}
}

func (b *Bus) Close() error {
	return b.writer.Close()
}

// Subscription is one consumer-group stream over a single queue.
type Subscription struct {
	reader *kafka.Reader
}

// Fetch blocks until the next delivery or a connection-level failure.
func (s *Subscription) Fetch(ctx context.Context) (Delivery, error) {
	msg, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return Delivery{}, fmt.Errorf("fetch from %s: %w", s.reader.Config().Topic, err)
	}
	return Delivery{Payload: msg.Value, message: msg, reader: s.reader}, nil
}

func (s *Subscription) Queue() string {
	return s.reader.Config().Topic
}

func (s *Subscription) Close() error {
	return s.reader.Close()
}

// Delivery is a single at-least-once message. Ack commits the offset; an
// unacked delivery is redelivered after the consumer session is recycled.
type Delivery struct {
	Payload []byte

	message kafka.Message
	reader  *kafka.Reader
}

func (d Delivery) Ack(ctx context.Context) error {
	if err := d.reader.CommitMessages(ctx, d.message); err != nil {
		return fmt.Errorf("commit offset on %s: %w", d.message.Topic, err)
	}
	return nil
}
