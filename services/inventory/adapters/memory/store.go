package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"medbook/internal/shared/events"
	"medbook/services/inventory/domain/entities"
	domainerrors "medbook/services/inventory/domain/errors"
	"medbook/services/inventory/ports"
)

// RecordedEvent is an outbox entry captured by the in-memory store.
type RecordedEvent struct {
	EventType string
	Payload   []byte
}

type ledgerKey struct {
	orderID   int
	productID int
}

// Store is the in-memory InventoryRepository used by tests and the developer
// bootstrap. Each method is all-or-nothing under one mutex, matching the
// transaction boundaries of the postgres adapter.
type Store struct {
	mu       sync.Mutex
	products map[int]entities.Product
	stock    map[int]entities.InventoryRecord
	ledger   map[ledgerKey]entities.Reservation
	outbox   []RecordedEvent
}

func NewStore() *Store {
	return &Store{
		products: make(map[int]entities.Product),
		stock:    make(map[int]entities.InventoryRecord),
		ledger:   make(map[ledgerKey]entities.Reservation),
	}
}

// SeedProduct registers a product with its starting stock.
func (s *Store) SeedProduct(product entities.Product, totalQuantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = product
	s.stock[product.ID] = entities.InventoryRecord{ProductID: product.ID, TotalQuantity: totalQuantity}
}

func (s *Store) ReserveOrder(ctx context.Context, orderID int, lines []entities.ReservationLine) (ports.ReservationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.ledger {
		if key.orderID == orderID {
			return ports.ReservationDuplicate, nil
		}
	}

	for _, line := range lines {
		record, ok := s.stock[line.ProductID]
		if !ok || record.Available() < line.Quantity {
			return ports.ReservationInsufficient, nil
		}
	}

	for _, line := range lines {
		record := s.stock[line.ProductID]
		record.ReservedQuantity += line.Quantity
		s.stock[line.ProductID] = record
		s.ledger[ledgerKey{orderID, line.ProductID}] = entities.Reservation{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Status:    entities.ReservationReserved,
		}
	}

	s.record(events.TopicOrderReserved, events.OrderReservedEvent{OrderID: orderID})
	return ports.ReservationApplied, nil
}

func (s *Store) RejectOrder(ctx context.Context, orderID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(events.TopicOrderRejected, events.OrderRejectedEvent{OrderID: orderID})
	return nil
}

func (s *Store) MarkOrderSold(ctx context.Context, orderID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	converted := 0
	for key, reservation := range s.ledger {
		if key.orderID != orderID || reservation.Status != entities.ReservationReserved {
			continue
		}
		record := s.stock[key.productID]
		record.ReservedQuantity -= reservation.Quantity
		record.SoldQuantity += reservation.Quantity
		s.stock[key.productID] = record

		reservation.Status = entities.ReservationSold
		s.ledger[key] = reservation
		converted++
	}
	return converted, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]entities.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]entities.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *Store) GetInventory(ctx context.Context, productID int) (entities.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.stock[productID]
	if !ok {
		return entities.InventoryRecord{}, domainerrors.ErrProductNotFound
	}
	return record, nil
}

// Reservation returns the ledger row for one order line, for test assertions.
func (s *Store) Reservation(orderID, productID int) (entities.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reservation, ok := s.ledger[ledgerKey{orderID, productID}]
	return reservation, ok
}

// OutboxEvents returns the captured outbox entries in enqueue order.
func (s *Store) OutboxEvents() []RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedEvent(nil), s.outbox...)
}

func (s *Store) record(eventType string, payload any) {
	body, _ := json.Marshal(payload)
	s.outbox = append(s.outbox, RecordedEvent{EventType: eventType, Payload: body})
}
