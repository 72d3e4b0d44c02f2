package workers

import (
	"context"
	"encoding/json"
	"testing"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	"medbook/services/delivery/adapters/memory"
	"medbook/services/delivery/domain/entities"
)

func TestOrderSuccessOpensDeliveryInPreparing(t *testing.T) {
	store := memory.NewStore()
	c := OrderSuccessConsumer{Deliveries: store}

	payload, _ := json.Marshal(events.DeliveryOrderSuccessEvent{OrderID: 9})
	if err := c.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	delivery, err := store.GetByOrder(context.Background(), 9)
	if err != nil {
		t.Fatalf("get delivery: %v", err)
	}
	if delivery.Status != entities.DeliveryStatusPreparing {
		t.Fatalf("expected PREPARING, got %s", delivery.Status)
	}

	recorded := store.OutboxEvents()
	if len(recorded) != 1 || recorded[0].EventType != events.TopicDeliveryStatusChanged {
		t.Fatalf("expected one %s event, got %+v", events.TopicDeliveryStatusChanged, recorded)
	}
}

func TestOrderSuccessRedeliveryCreatesNothing(t *testing.T) {
	store := memory.NewStore()
	c := OrderSuccessConsumer{Deliveries: store}

	payload, _ := json.Marshal(events.DeliveryOrderSuccessEvent{OrderID: 9})
	if err := c.Handle(context.Background(), payload); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := c.Handle(context.Background(), payload); err != nil {
		t.Fatalf("redelivery must be acked, got %v", err)
	}

	if recorded := store.OutboxEvents(); len(recorded) != 1 {
		t.Fatalf("redelivery emitted a duplicate event: %d", len(recorded))
	}
}

func TestOrderSuccessMalformedPayloadIsPermanent(t *testing.T) {
	c := OrderSuccessConsumer{Deliveries: memory.NewStore()}

	if err := c.Handle(context.Background(), []byte("{not json")); !consumer.IsPermanent(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}
