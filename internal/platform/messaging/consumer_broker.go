package messaging

import (
	"context"

	"medbook/internal/shared/consumer"
)

// ConsumerBroker adapts Bus to the consumer framework contracts so the
// supervisor stays testable without a live broker.
type ConsumerBroker struct {
	bus *Bus
}

func NewConsumerBroker(bus *Bus) ConsumerBroker {
	return ConsumerBroker{bus: bus}
}

func (b ConsumerBroker) Subscribe(queue string, group string) consumer.Stream {
	return stream{sub: b.bus.Subscribe(queue, group)}
}

func (b ConsumerBroker) Publish(ctx context.Context, destination string, key []byte, payload []byte) error {
	return b.bus.Publish(ctx, destination, key, payload)
}

type stream struct {
	sub *Subscription
}

func (s stream) Fetch(ctx context.Context) (consumer.Delivery, error) {
	delivery, err := s.sub.Fetch(ctx)
	if err != nil {
		return consumer.Delivery{}, err
	}
	return consumer.Delivery{Payload: delivery.Payload, Ack: delivery.Ack}, nil
}

func (s stream) Close() error {
	return s.sub.Close()
}
