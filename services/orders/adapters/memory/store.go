package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"medbook/internal/shared/events"
	"medbook/services/orders/domain/entities"
	domainerrors "medbook/services/orders/domain/errors"
)

// RecordedEvent is an outbox entry captured by the in-memory store, kept as
// raw JSON so tests observe exactly what the relay would publish.
type RecordedEvent struct {
	EventType string
	Payload   []byte
}

// Store is the in-memory OrderRepository used by tests and the developer
// bootstrap. Method bodies are all-or-nothing under one mutex, mirroring the
// transaction boundaries of the postgres adapter.
type Store struct {
	mu     sync.Mutex
	orders map[int]entities.Order
	outbox []RecordedEvent
	nextID int

	// FailNextCreate injects a transaction failure for atomicity tests.
	FailNextCreate error
}

func NewStore() *Store {
	return &Store{orders: make(map[int]entities.Order), nextID: 1}
}

func (s *Store) CreateOrderWithOutbox(ctx context.Context, order entities.Order) (entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailNextCreate; err != nil {
		s.FailNextCreate = nil
		return entities.Order{}, err
	}

	order.ID = s.nextID
	s.nextID++
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	s.orders[order.ID] = order

	eventItems := make([]events.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		eventItems = append(eventItems, events.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	s.record(events.TopicOrderRequested, events.OrderRequestedEvent{OrderID: order.ID, OrderItems: eventItems})
	return order, nil
}

func (s *Store) GetOrder(ctx context.Context, orderID int) (entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Store) ListOrdersByPatient(ctx context.Context, patientID int) ([]entities.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []entities.Order
	for id := 1; id < s.nextID; id++ {
		if order, ok := s.orders[id]; ok && order.PatientID == patientID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *Store) TransitionStatus(ctx context.Context, orderID int, from, to entities.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(orderID, from, to), nil
}

func (s *Store) TransitionStatusWithEvent(ctx context.Context, orderID int, from, to entities.OrderStatus, eventType string, payload any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.transitionLocked(orderID, from, to) {
		return false, nil
	}
	s.record(eventType, payload)
	return true, nil
}

func (s *Store) BeginPayment(ctx context.Context, orderID int, paymentID string, event events.OrderPayRequestEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.Status != entities.OrderStatusReserved {
		return false, nil
	}
	order.Status = entities.OrderStatusPaymentProcessing
	order.PaymentID = paymentID
	order.UpdatedAt = time.Now().UTC()
	s.orders[orderID] = order

	s.record(events.TopicPayRequest, event)
	return true, nil
}

// Seed inserts an order as-is, for test arrangement.
func (s *Store) Seed(order entities.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[order.ID] = order
	if order.ID >= s.nextID {
		s.nextID = order.ID + 1
	}
}

// OutboxEvents returns the captured outbox entries in enqueue order.
func (s *Store) OutboxEvents() []RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedEvent(nil), s.outbox...)
}

func (s *Store) transitionLocked(orderID int, from, to entities.OrderStatus) bool {
	order, ok := s.orders[orderID]
	if !ok || order.Status != from {
		return false
	}
	order.Status = to
	order.UpdatedAt = time.Now().UTC()
	s.orders[orderID] = order
	return true
}

func (s *Store) record(eventType string, payload any) {
	body, _ := json.Marshal(payload)
	s.outbox = append(s.outbox, RecordedEvent{EventType: eventType, Payload: body})
}
