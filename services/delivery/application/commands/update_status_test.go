package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"medbook/internal/shared/events"
	"medbook/services/delivery/adapters/memory"
	"medbook/services/delivery/domain/entities"
	domainerrors "medbook/services/delivery/domain/errors"
)

func openDelivery(t *testing.T, store *memory.Store, orderID int) {
	t.Helper()
	created, err := store.CreateIfAbsent(context.Background(), orderID)
	if err != nil || !created {
		t.Fatalf("open delivery: created=%v err=%v", created, err)
	}
}

func TestUpdateStatusWalksForward(t *testing.T) {
	store := memory.NewStore()
	openDelivery(t, store, 5)
	uc := UpdateStatusUseCase{Deliveries: store}

	for _, status := range []entities.DeliveryStatus{
		entities.DeliveryStatusEnRoute,
		entities.DeliveryStatusDelivered,
	} {
		delivery, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: string(status)})
		if err != nil {
			t.Fatalf("advance to %s: %v", status, err)
		}
		if delivery.Status != status {
			t.Fatalf("expected %s, got %s", status, delivery.Status)
		}
	}

	// Creation plus the two hops, each with its own status event.
	recorded := store.OutboxEvents()
	if len(recorded) != 3 {
		t.Fatalf("expected 3 status events, got %d", len(recorded))
	}
	wantStatuses := []string{
		string(entities.DeliveryStatusPreparing),
		string(entities.DeliveryStatusEnRoute),
		string(entities.DeliveryStatusDelivered),
	}
	for i, entry := range recorded {
		if entry.EventType != events.TopicDeliveryStatusChanged {
			t.Fatalf("event %d: expected %s, got %s", i, events.TopicDeliveryStatusChanged, entry.EventType)
		}
		var event events.DeliveryStatusChangedEvent
		if err := json.Unmarshal(entry.Payload, &event); err != nil {
			t.Fatalf("decode event %d: %v", i, err)
		}
		if event.OrderID != 5 || event.Status != wantStatuses[i] {
			t.Fatalf("event %d: expected status %s, got %+v", i, wantStatuses[i], event)
		}
	}
}

func TestUpdateStatusRejectsBackwardAndSkippedMoves(t *testing.T) {
	store := memory.NewStore()
	openDelivery(t, store, 5)
	uc := UpdateStatusUseCase{Deliveries: store}

	// PREPARING→DELIVERED skips EN_ROUTE.
	if _, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: "DELIVERED"}); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("skip: expected ErrInvalidTransition, got %v", err)
	}

	if _, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: "EN_ROUTE"}); err != nil {
		t.Fatalf("advance: %v", err)
	}
	// EN_ROUTE→PREPARING moves backward.
	if _, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: "PREPARING"}); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("backward: expected ErrInvalidTransition, got %v", err)
	}

	delivery, _ := store.GetByOrder(context.Background(), 5)
	if delivery.Status != entities.DeliveryStatusEnRoute {
		t.Fatalf("status moved illegally to %s", delivery.Status)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := memory.NewStore()
	openDelivery(t, store, 5)
	uc := UpdateStatusUseCase{Deliveries: store}

	_, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: "LOST"})
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	uc := UpdateStatusUseCase{Deliveries: memory.NewStore()}

	_, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 404, Status: "EN_ROUTE"})
	if !errors.Is(err, domainerrors.ErrDeliveryNotFound) {
		t.Fatalf("expected ErrDeliveryNotFound, got %v", err)
	}
}

func TestRepeatedStatusUpdateIsConflictWithoutSecondEvent(t *testing.T) {
	store := memory.NewStore()
	openDelivery(t, store, 5)
	uc := UpdateStatusUseCase{Deliveries: store}

	if _, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: "EN_ROUTE"}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := uc.Execute(context.Background(), UpdateStatusCommand{OrderID: 5, Status: "EN_ROUTE"}); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("repeat: expected ErrInvalidTransition, got %v", err)
	}
	if recorded := store.OutboxEvents(); len(recorded) != 2 {
		t.Fatalf("expected creation + one hop, got %d events", len(recorded))
	}
}
