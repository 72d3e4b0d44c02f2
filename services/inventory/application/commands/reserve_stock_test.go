package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"medbook/internal/shared/events"
	"medbook/services/inventory/adapters/memory"
	"medbook/services/inventory/domain/entities"
	domainerrors "medbook/services/inventory/domain/errors"
	"medbook/services/inventory/ports"
)

func seedStore(t *testing.T, stock map[int]int) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	for productID, total := range stock {
		store.SeedProduct(entities.Product{ID: productID, Name: "product", PriceCents: 100}, total)
	}
	return store
}

func TestReserveStockHoldsEveryLineAndConfirms(t *testing.T) {
	store := seedStore(t, map[int]int{1: 10, 2: 4})
	uc := ReserveStockUseCase{Inventory: store}

	outcome, err := uc.Execute(context.Background(), ReserveStockCommand{
		OrderID: 1,
		Lines: []entities.ReservationLine{
			{ProductID: 2, Quantity: 1},
			{ProductID: 1, Quantity: 2},
			{ProductID: 1, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if outcome != ports.ReservationApplied {
		t.Fatalf("expected applied, got %v", outcome)
	}

	record, err := store.GetInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	// Duplicate lines for product 1 fold into a single hold of 3.
	if record.ReservedQuantity != 3 || record.Available() != 7 {
		t.Fatalf("unexpected product 1 counters: %+v", record)
	}

	if _, ok := store.Reservation(1, 1); !ok {
		t.Fatal("missing ledger row for product 1")
	}
	recorded := store.OutboxEvents()
	if len(recorded) != 1 || recorded[0].EventType != events.TopicOrderReserved {
		t.Fatalf("expected one %s event, got %+v", events.TopicOrderReserved, recorded)
	}
}

func TestReserveStockRejectsWithoutTouchingCounters(t *testing.T) {
	store := seedStore(t, map[int]int{1: 10, 2: 1})
	uc := ReserveStockUseCase{Inventory: store}

	outcome, err := uc.Execute(context.Background(), ReserveStockCommand{
		OrderID: 1,
		Lines: []entities.ReservationLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if outcome != ports.ReservationInsufficient {
		t.Fatalf("expected insufficient, got %v", outcome)
	}

	// All-or-nothing: the coverable line must not stay held.
	for _, productID := range []int{1, 2} {
		record, err := store.GetInventory(context.Background(), productID)
		if err != nil {
			t.Fatalf("get inventory %d: %v", productID, err)
		}
		if record.ReservedQuantity != 0 || record.SoldQuantity != 0 {
			t.Fatalf("product %d counters moved on rejection: %+v", productID, record)
		}
	}

	recorded := store.OutboxEvents()
	if len(recorded) != 1 || recorded[0].EventType != events.TopicOrderRejected {
		t.Fatalf("expected one %s event, got %+v", events.TopicOrderRejected, recorded)
	}
}

func TestReserveStockUnknownProductRejects(t *testing.T) {
	store := seedStore(t, map[int]int{1: 10})
	uc := ReserveStockUseCase{Inventory: store}

	outcome, err := uc.Execute(context.Background(), ReserveStockCommand{
		OrderID: 1,
		Lines:   []entities.ReservationLine{{ProductID: 99, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if outcome != ports.ReservationInsufficient {
		t.Fatalf("expected insufficient for unknown product, got %v", outcome)
	}
}

func TestReserveStockEmptyLines(t *testing.T) {
	uc := ReserveStockUseCase{Inventory: memory.NewStore()}

	outcome, err := uc.Execute(context.Background(), ReserveStockCommand{
		OrderID: 1,
		Lines:   []entities.ReservationLine{{ProductID: 1, Quantity: 0}},
	})
	if !errors.Is(err, domainerrors.ErrEmptyReservation) {
		t.Fatalf("expected ErrEmptyReservation, got %v", err)
	}
	if outcome != ports.ReservationUnknown {
		t.Fatalf("expected unknown outcome on error, got %v", outcome)
	}
}

func TestReserveStockReplayIsDuplicateWithoutSecondConfirmation(t *testing.T) {
	store := seedStore(t, map[int]int{1: 10})
	uc := ReserveStockUseCase{Inventory: store}

	cmd := ReserveStockCommand{OrderID: 1, Lines: []entities.ReservationLine{{ProductID: 1, Quantity: 2}}}
	if _, err := uc.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	outcome, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if outcome != ports.ReservationDuplicate {
		t.Fatalf("expected duplicate, got %v", outcome)
	}

	record, _ := store.GetInventory(context.Background(), 1)
	if record.ReservedQuantity != 2 {
		t.Fatalf("replay moved counters: %+v", record)
	}
	if recorded := store.OutboxEvents(); len(recorded) != 1 {
		t.Fatalf("expected one confirmation event, got %d", len(recorded))
	}
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	// 5 units, one order wants 3 and another wants 4: exactly one can win.
	store := seedStore(t, map[int]int{1: 5})
	uc := ReserveStockUseCase{Inventory: store}

	outcomes := make([]ports.ReservationOutcome, 2)
	quantities := []int{3, 4}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := uc.Execute(context.Background(), ReserveStockCommand{
				OrderID: i + 1,
				Lines:   []entities.ReservationLine{{ProductID: 1, Quantity: quantities[i]}},
			})
			if err != nil {
				t.Errorf("order %d: %v", i+1, err)
				return
			}
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	applied, rejected := 0, 0
	for _, outcome := range outcomes {
		switch outcome {
		case ports.ReservationApplied:
			applied++
		case ports.ReservationInsufficient:
			rejected++
		}
	}
	if applied != 1 || rejected != 1 {
		t.Fatalf("expected one winner and one rejection, got %d/%d", applied, rejected)
	}

	record, err := store.GetInventory(context.Background(), 1)
	if err != nil {
		t.Fatalf("get inventory: %v", err)
	}
	if record.ReservedQuantity > record.TotalQuantity {
		t.Fatalf("oversold: %+v", record)
	}
	if record.ReservedQuantity != 3 && record.ReservedQuantity != 4 {
		t.Fatalf("unexpected reserved quantity: %+v", record)
	}
}
