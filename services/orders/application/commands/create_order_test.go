package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"medbook/internal/shared/events"
	"medbook/services/orders/adapters/memory"
	"medbook/services/orders/domain/entities"
	domainerrors "medbook/services/orders/domain/errors"
)

type fakeCatalog struct {
	prices map[int]int64
	err    error
}

func (f fakeCatalog) GetPrices(ctx context.Context, productIDs []int) (map[int]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	prices := make(map[int]int64)
	for _, id := range productIDs {
		if price, ok := f.prices[id]; ok {
			prices[id] = price
		}
	}
	return prices, nil
}

func TestCreateOrderPersistsOrderAndOutboxEntryTogether(t *testing.T) {
	store := memory.NewStore()
	uc := CreateOrderUseCase{
		Orders:  store,
		Catalog: fakeCatalog{prices: map[int]int64{1: 250, 2: 1000}},
	}

	order, err := uc.Execute(context.Background(), CreateOrderCommand{
		PatientID: 7,
		Items: []entities.OrderItem{
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != entities.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	if order.TotalCents != 3*250+1000 {
		t.Fatalf("expected total %d, got %d", 3*250+1000, order.TotalCents)
	}

	// Duplicate product lines fold into one, ordered by product id.
	want := []entities.OrderItem{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}}
	if len(order.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(order.Items))
	}
	for i, item := range want {
		if order.Items[i] != item {
			t.Fatalf("item %d: expected %+v, got %+v", i, item, order.Items[i])
		}
	}

	recorded := store.OutboxEvents()
	if len(recorded) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(recorded))
	}
	if recorded[0].EventType != events.TopicOrderRequested {
		t.Fatalf("expected %s, got %s", events.TopicOrderRequested, recorded[0].EventType)
	}
	var event events.OrderRequestedEvent
	if err := json.Unmarshal(recorded[0].Payload, &event); err != nil {
		t.Fatalf("decode outbox payload: %v", err)
	}
	if event.OrderID != order.ID || len(event.OrderItems) != 2 {
		t.Fatalf("unexpected order-requested event: %+v", event)
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	uc := CreateOrderUseCase{
		Orders:  memory.NewStore(),
		Catalog: fakeCatalog{prices: map[int]int64{1: 100}},
	}

	cases := [][]entities.OrderItem{
		nil,
		{},
		{{ProductID: 1, Quantity: 0}, {ProductID: 1, Quantity: -3}},
	}
	for _, items := range cases {
		_, err := uc.Execute(context.Background(), CreateOrderCommand{PatientID: 1, Items: items})
		if !errors.Is(err, domainerrors.ErrEmptyOrder) {
			t.Fatalf("items %+v: expected ErrEmptyOrder, got %v", items, err)
		}
	}
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	store := memory.NewStore()
	uc := CreateOrderUseCase{
		Orders:  store,
		Catalog: fakeCatalog{prices: map[int]int64{1: 100}},
	}

	_, err := uc.Execute(context.Background(), CreateOrderCommand{
		PatientID: 1,
		Items:     []entities.OrderItem{{ProductID: 99, Quantity: 1}},
	})
	if !errors.Is(err, domainerrors.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
	if len(store.OutboxEvents()) != 0 {
		t.Fatal("unknown product must not write anything")
	}
}

func TestCreateOrderSurfacesCatalogUnavailability(t *testing.T) {
	store := memory.NewStore()
	uc := CreateOrderUseCase{
		Orders:  store,
		Catalog: fakeCatalog{err: domainerrors.ErrCatalogUnavailable},
	}

	_, err := uc.Execute(context.Background(), CreateOrderCommand{
		PatientID: 1,
		Items:     []entities.OrderItem{{ProductID: 1, Quantity: 1}},
	})
	if !errors.Is(err, domainerrors.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
	if len(store.OutboxEvents()) != 0 {
		t.Fatal("catalog failure must not write anything")
	}
}

func TestCreateOrderFailedTransactionLeavesNoOutboxEntry(t *testing.T) {
	store := memory.NewStore()
	store.FailNextCreate = errors.New("connection reset")
	uc := CreateOrderUseCase{
		Orders:  store,
		Catalog: fakeCatalog{prices: map[int]int64{1: 100}},
	}

	_, err := uc.Execute(context.Background(), CreateOrderCommand{
		PatientID: 1,
		Items:     []entities.OrderItem{{ProductID: 1, Quantity: 1}},
	})
	if err == nil {
		t.Fatal("expected transaction failure")
	}
	if len(store.OutboxEvents()) != 0 {
		t.Fatal("rolled-back order must not leave an outbox entry")
	}
}
