package consumer

import (
	"context"
	"log/slog"
	"time"
)

// Delivery is one at-least-once message handed to the supervisor.
type Delivery struct {
	Payload []byte
	Ack     func(ctx context.Context) error
}

// Stream is a sequential delivery source for one queue.
type Stream interface {
	Fetch(ctx context.Context) (Delivery, error)
	Close() error
}

// Broker is the subset of the messaging platform the supervisor needs:
// subscriptions for consuming and publishing for dead letters.
type Broker interface {
	Subscribe(queue string, group string) Stream
	Publish(ctx context.Context, destination string, key []byte, payload []byte) error
}

// Supervisor runs one consume loop per (queue, handler) binding. A message is
// acknowledged only after its handler succeeds. Permanent failures are routed
// to "<queue>.dlq" and then acknowledged; transient failures are retried in
// place and, once attempts are exhausted, tear the subscription down without
// an ack so the broker redelivers. Connection-level failures also tear down
// and restart after a fixed delay.
type Supervisor struct {
	Broker         Broker
	Group          string
	MaxAttempts    int
	RetryDelay     time.Duration
	ReconnectDelay time.Duration
	Logger         *slog.Logger
}

// Run blocks until the context is cancelled, restarting the subscription
// after every failure.
func (s Supervisor) Run(ctx context.Context, binding Binding) error {
	logger := s.logger()
	delay := s.ReconnectDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}

	for {
		err := s.consume(ctx, binding)
		if ctx.Err() != nil {
			return nil
		}
		logger.Error("consumer loop failed, restarting",
			"event", "consumer_loop_failed",
			"module", "internal/shared/consumer",
			"layer", "worker",
			"queue", binding.Queue,
			"group", s.Group,
			"retry_in", delay.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (s Supervisor) consume(ctx context.Context, binding Binding) error {
	stream := s.Broker.Subscribe(binding.Queue, s.Group)
	defer stream.Close()

	s.logger().Info("consumer subscribed",
		"event", "consumer_subscribed",
		"module", "internal/shared/consumer",
		"layer", "worker",
		"queue", binding.Queue,
		"group", s.Group,
	)

	for {
		delivery, err := stream.Fetch(ctx)
		if err != nil {
			return err
		}
		if err := s.process(ctx, binding, delivery); err != nil {
			return err
		}
	}
}

// process runs the handler with bounded in-place retries. It returns a
// non-nil error only when a transient failure survived every attempt, which
// leaves the message unacked for redelivery.
func (s Supervisor) process(ctx context.Context, binding Binding, delivery Delivery) error {
	logger := s.logger()
	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := binding.Handler.Handle(ctx, delivery.Payload)
		if err == nil {
			return delivery.Ack(ctx)
		}

		if IsPermanent(err) {
			return s.deadLetter(ctx, binding, delivery, err)
		}

		lastErr = err
		logger.Warn("consumer handler failed, retrying",
			"event", "consumer_handler_retry",
			"module", "internal/shared/consumer",
			"layer", "worker",
			"queue", binding.Queue,
			"group", s.Group,
			"attempt", attempt,
			"error", err.Error(),
		)
		if attempt < attempts && s.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.RetryDelay):
			}
		}
	}

	logger.Error("consumer handler exhausted retries, message stays unacked",
		"event", "consumer_retries_exhausted",
		"module", "internal/shared/consumer",
		"layer", "worker",
		"queue", binding.Queue,
		"group", s.Group,
		"error", lastErr.Error(),
	)
	return lastErr
}

func (s Supervisor) deadLetter(ctx context.Context, binding Binding, delivery Delivery, cause error) error {
	logger := s.logger()
	destination := binding.Queue + ".dlq"

	if err := s.Broker.Publish(ctx, destination, nil, delivery.Payload); err != nil {
		// Keep the message unacked rather than dropping it silently.
		logger.Error("dead-letter publish failed",
			"event", "consumer_dead_letter_failed",
			"module", "internal/shared/consumer",
			"layer", "worker",
			"queue", binding.Queue,
			"group", s.Group,
			"error", err.Error(),
		)
		return err
	}

	logger.Error("message routed to dead letter",
		"event", "consumer_dead_lettered",
		"module", "internal/shared/consumer",
		"layer", "worker",
		"queue", binding.Queue,
		"group", s.Group,
		"destination", destination,
		"cause", cause.Error(),
	)
	return delivery.Ack(ctx)
}

func (s Supervisor) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
