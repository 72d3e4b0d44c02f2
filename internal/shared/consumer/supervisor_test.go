package consumer

import (
	"context"
	"errors"
	"testing"
)

type fakeStream struct {
	deliveries []Delivery
	cursor     int
	closed     bool
}

func (f *fakeStream) Fetch(ctx context.Context) (Delivery, error) {
	if f.cursor >= len(f.deliveries) {
		return Delivery{}, errors.New("stream drained")
	}
	delivery := f.deliveries[f.cursor]
	f.cursor++
	return delivery, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

type fakeBroker struct {
	stream    *fakeStream
	published map[string][][]byte
}

func (f *fakeBroker) Subscribe(queue string, group string) Stream {
	return f.stream
}

func (f *fakeBroker) Publish(ctx context.Context, destination string, key []byte, payload []byte) error {
	if f.published == nil {
		f.published = make(map[string][][]byte)
	}
	f.published[destination] = append(f.published[destination], payload)
	return nil
}

func ackRecorder(acked *int) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		*acked++
		return nil
	}
}

func TestSupervisorAcksOnlyOnHandlerSuccess(t *testing.T) {
	acked := 0
	broker := &fakeBroker{stream: &fakeStream{
		deliveries: []Delivery{{Payload: []byte(`{"order_id":1}`), Ack: ackRecorder(&acked)}},
	}}

	handled := 0
	supervisor := Supervisor{Broker: broker, Group: "orders", MaxAttempts: 1}
	err := supervisor.consume(context.Background(), Binding{
		Queue: "orders.order_reserved",
		Handler: HandlerFunc(func(ctx context.Context, payload []byte) error {
			handled++
			return nil
		}),
	})
	if err == nil {
		t.Fatal("expected drained-stream error to surface")
	}
	if handled != 1 {
		t.Fatalf("expected handler invoked once, got %d", handled)
	}
	if acked != 1 {
		t.Fatalf("expected exactly one ack, got %d", acked)
	}
	if !broker.stream.closed {
		t.Fatal("expected stream closed on teardown")
	}
}

func TestSupervisorDeadLettersPermanentFailures(t *testing.T) {
	acked := 0
	payload := []byte(`not-json`)
	broker := &fakeBroker{stream: &fakeStream{
		deliveries: []Delivery{{Payload: payload, Ack: ackRecorder(&acked)}},
	}}

	supervisor := Supervisor{Broker: broker, Group: "orders", MaxAttempts: 3}
	err := supervisor.process(context.Background(), Binding{
		Queue: "orders.order_reserved",
		Handler: HandlerFunc(func(ctx context.Context, p []byte) error {
			return Permanent(errors.New("malformed payload"))
		}),
	}, broker.stream.deliveries[0])
	if err != nil {
		t.Fatalf("dead-lettered message must not surface an error, got %v", err)
	}
	if got := broker.published["orders.order_reserved.dlq"]; len(got) != 1 || string(got[0]) != string(payload) {
		t.Fatalf("expected raw payload routed to dlq, got %v", got)
	}
	if acked != 1 {
		t.Fatalf("dead-lettered message must be acked afterwards, got %d acks", acked)
	}
}

func TestSupervisorRetriesTransientThenLeavesUnacked(t *testing.T) {
	acked := 0
	broker := &fakeBroker{stream: &fakeStream{}}

	attempts := 0
	supervisor := Supervisor{Broker: broker, Group: "inventory", MaxAttempts: 3}
	err := supervisor.process(context.Background(), Binding{
		Queue: "inventory.order_requested",
		Handler: HandlerFunc(func(ctx context.Context, p []byte) error {
			attempts++
			return errors.New("db connection exhausted")
		}),
	}, Delivery{Payload: []byte(`{}`), Ack: ackRecorder(&acked)})
	if err == nil {
		t.Fatal("exhausted transient failure must surface to restart the loop")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if acked != 0 {
		t.Fatal("transient failure must never ack the message")
	}
	if len(broker.published) != 0 {
		t.Fatal("transient failure must not dead-letter the message")
	}
}

func TestSupervisorRecoversAfterTransientFailureMidStream(t *testing.T) {
	acked := 0
	broker := &fakeBroker{stream: &fakeStream{
		deliveries: []Delivery{
			{Payload: []byte(`{"order_id":1}`), Ack: ackRecorder(&acked)},
			{Payload: []byte(`{"order_id":2}`), Ack: ackRecorder(&acked)},
		},
	}}

	calls := 0
	supervisor := Supervisor{Broker: broker, Group: "payments", MaxAttempts: 2}
	binding := Binding{
		Queue: "payments.pay_request",
		Handler: HandlerFunc(func(ctx context.Context, p []byte) error {
			calls++
			if calls == 1 {
				return errors.New("transient")
			}
			return nil
		}),
	}
	_ = supervisor.consume(context.Background(), binding)

	// First delivery fails once then succeeds on the in-place retry.
	if acked != 2 {
		t.Fatalf("expected both deliveries acked after retry, got %d", acked)
	}
}

func TestRegistryRejectsDuplicateQueues(t *testing.T) {
	registry := NewRegistry()
	handler := HandlerFunc(func(ctx context.Context, p []byte) error { return nil })

	if err := registry.Bind("orders.order_reserved", handler); err != nil {
		t.Fatalf("first bind failed: %v", err)
	}
	if err := registry.Bind("orders.order_reserved", handler); err == nil {
		t.Fatal("duplicate queue binding must be rejected")
	}
	if got := len(registry.Bindings()); got != 1 {
		t.Fatalf("expected 1 binding, got %d", got)
	}
}

func TestPermanentClassification(t *testing.T) {
	if IsPermanent(errors.New("plain")) {
		t.Fatal("plain errors are transient")
	}
	if !IsPermanent(Permanent(errors.New("bad payload"))) {
		t.Fatal("wrapped errors must classify as permanent")
	}
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must stay nil")
	}
}
