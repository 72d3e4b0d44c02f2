package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"medbook/internal/shared/events"
	"medbook/services/delivery/domain/entities"
	domainerrors "medbook/services/delivery/domain/errors"
)

// RecordedEvent is an outbox entry captured by the in-memory store.
type RecordedEvent struct {
	EventType string
	Payload   []byte
}

// Store is the in-memory DeliveryRepository used by tests and the developer
// bootstrap.
type Store struct {
	mu         sync.Mutex
	deliveries map[int]entities.Delivery
	outbox     []RecordedEvent
	nextID     int
}

func NewStore() *Store {
	return &Store{deliveries: make(map[int]entities.Delivery), nextID: 1}
}

func (s *Store) CreateIfAbsent(ctx context.Context, orderID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deliveries[orderID]; exists {
		return false, nil
	}

	now := time.Now().UTC()
	s.deliveries[orderID] = entities.Delivery{
		ID:        s.nextID,
		OrderID:   orderID,
		Status:    entities.DeliveryStatusPreparing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++

	s.record(events.TopicDeliveryStatusChanged, events.DeliveryStatusChangedEvent{
		OrderID: orderID,
		Status:  string(entities.DeliveryStatusPreparing),
	})
	return true, nil
}

func (s *Store) GetByOrder(ctx context.Context, orderID int) (entities.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delivery, ok := s.deliveries[orderID]
	if !ok {
		return entities.Delivery{}, domainerrors.ErrDeliveryNotFound
	}
	return delivery, nil
}

func (s *Store) AdvanceStatus(ctx context.Context, orderID int, from, to entities.DeliveryStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delivery, ok := s.deliveries[orderID]
	if !ok || delivery.Status != from {
		return false, nil
	}
	delivery.Status = to
	delivery.UpdatedAt = time.Now().UTC()
	s.deliveries[orderID] = delivery

	s.record(events.TopicDeliveryStatusChanged, events.DeliveryStatusChangedEvent{
		OrderID: orderID,
		Status:  string(to),
	})
	return true, nil
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
