package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"medbook/internal/shared/events"
	"medbook/services/payments/domain/entities"
	domainerrors "medbook/services/payments/domain/errors"
)

// RecordedEvent is an outbox entry captured by the in-memory store.
type RecordedEvent struct {
	EventType string
	Payload   []byte
}

// Store is the in-memory PaymentRepository used by tests and the developer
// bootstrap.
type Store struct {
	mu       sync.Mutex
	payments map[uuid.UUID]entities.Payment
	outbox   []RecordedEvent
}

func NewStore() *Store {
	return &Store{payments: make(map[uuid.UUID]entities.Payment)}
}

func (s *Store) CreateIfAbsent(ctx context.Context, payment entities.Payment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.payments[payment.ID]; exists {
		return false, nil
	}
	payment.CreatedAt = time.Now().UTC()
	payment.UpdatedAt = payment.CreatedAt
	s.payments[payment.ID] = payment
	return true, nil
}

func (s *Store) GetPayment(ctx context.Context, id uuid.UUID) (entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return entities.Payment{}, domainerrors.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]entities.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := make([]entities.Payment, 0, len(s.payments))
	for _, payment := range s.payments {
		payments = append(payments, payment)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.Before(payments[j].CreatedAt) })
	return payments, nil
}

func (s *Store) MarkSucceeded(ctx context.Context, id uuid.UUID, providerRef string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return false, domainerrors.ErrPaymentNotFound
	}
	if payment.Status != entities.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entities.PaymentStatusSuccess
	payment.ProviderRef = providerRef
	payment.UpdatedAt = time.Now().UTC()
	s.payments[id] = payment

	s.record(events.TopicPaymentSuccess, events.OrderPaymentSuccessEvent{
		PaymentID:   id.String(),
		OrderID:     payment.OrderID,
		AmountCents: payment.AmountCents,
		Provider:    payment.Provider,
	})
	return true, nil
}

func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return false, domainerrors.ErrPaymentNotFound
	}
	if payment.Status != entities.PaymentStatusPending {
		return false, nil
	}
	payment.Status = entities.PaymentStatusFailed
	payment.FailureReason = reason
	payment.UpdatedAt = time.Now().UTC()
	s.payments[id] = payment
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
