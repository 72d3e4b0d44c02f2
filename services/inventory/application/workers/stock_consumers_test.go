package workers

import (
	"context"
	"encoding/json"
	"testing"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	"medbook/services/inventory/adapters/memory"
	"medbook/services/inventory/application/commands"
	"medbook/services/inventory/domain/entities"
)

func TestOrderRequestedReservesAndConfirms(t *testing.T) {
	store := memory.NewStore()
	store.SeedProduct(entities.Product{ID: 1, Name: "amoxicillin", PriceCents: 900}, 8)
	c := OrderRequestedConsumer{Reserve: commands.ReserveStockUseCase{Inventory: store}}

	payload, _ := json.Marshal(events.OrderRequestedEvent{
		OrderID:    3,
		OrderItems: []events.OrderItem{{ProductID: 1, Quantity: 2}},
	})
	if err := c.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	record, err := store.GetInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if record.ReservedQuantity != 2 {
		t.Fatalf("expected 2 reserved, got %+v", record)
	}
	recorded := store.OutboxEvents()
	if len(recorded) != 1 || recorded[0].EventType != events.TopicOrderReserved {
		t.Fatalf("expected one %s event, got %+v", events.TopicOrderReserved, recorded)
	}
}

func TestOrderRequestedShortStockEmitsRejection(t *testing.T) {
	store := memory.NewStore()
	store.SeedProduct(entities.Product{ID: 1, Name: "amoxicillin", PriceCents: 900}, 1)
	c := OrderRequestedConsumer{Reserve: commands.ReserveStockUseCase{Inventory: store}}

	payload, _ := json.Marshal(events.OrderRequestedEvent{
		OrderID:    3,
		OrderItems: []events.OrderItem{{ProductID: 1, Quantity: 5}},
	})
	// A business rejection still acks the delivery.
	if err := c.Handle(context.Background(), payload); err != nil {
		t.Fatalf("rejection must be acked, got %v", err)
	}

	recorded := store.OutboxEvents()
	if len(recorded) != 1 || recorded[0].EventType != events.TopicOrderRejected {
		t.Fatalf("expected one %s event, got %+v", events.TopicOrderRejected, recorded)
	}
}

func TestOrderRequestedEmptyCartIsPermanent(t *testing.T) {
	c := OrderRequestedConsumer{Reserve: commands.ReserveStockUseCase{Inventory: memory.NewStore()}}

	payload, _ := json.Marshal(events.OrderRequestedEvent{OrderID: 3})
	if err := c.Handle(context.Background(), payload); !consumer.IsPermanent(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
}

func TestStockSoldConvertsReservation(t *testing.T) {
	store := memory.NewStore()
	store.SeedProduct(entities.Product{ID: 1, Name: "amoxicillin", PriceCents: 900}, 8)
	reserve := OrderRequestedConsumer{Reserve: commands.ReserveStockUseCase{Inventory: store}}
	sold := StockSoldConsumer{MarkSold: commands.MarkStockSoldUseCase{Inventory: store}}

	reservePayload, _ := json.Marshal(events.OrderRequestedEvent{
		OrderID:    3,
		OrderItems: []events.OrderItem{{ProductID: 1, Quantity: 2}},
	})
	if err := reserve.Handle(context.Background(), reservePayload); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	soldPayload, _ := json.Marshal(events.StockSoldEvent{OrderID: 3})
	if err := sold.Handle(context.Background(), soldPayload); err != nil {
		t.Fatalf("mark sold: %v", err)
	}

	record, _ := store.GetInventory(context.Background(), 1)
	if record.SoldQuantity != 2 || record.ReservedQuantity != 0 {
		t.Fatalf("unexpected counters: %+v", record)
	}
}

func TestMalformedPayloadsArePermanent(t *testing.T) {
	store := memory.NewStore()
	handlers := []consumer.Handler{
		OrderRequestedConsumer{Reserve: commands.ReserveStockUseCase{Inventory: store}},
		StockSoldConsumer{MarkSold: commands.MarkStockSoldUseCase{Inventory: store}},
	}
	for i, h := range handlers {
		if err := h.Handle(context.Background(), []byte("{not json")); !consumer.IsPermanent(err) {
			t.Fatalf("handler %d: expected permanent error, got %v", i, err)
		}
	}
}
