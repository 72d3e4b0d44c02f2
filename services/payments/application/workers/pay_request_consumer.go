package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	application "medbook/services/payments/application"
	"medbook/services/payments/domain/entities"
	"medbook/services/payments/ports"
)

// PayRequestConsumer opens a PENDING payment for an order. The payment id
// travels on the event, so a redelivered request maps onto the existing row.
type PayRequestConsumer struct {
	Payments ports.PaymentRepository
	Logger   *slog.Logger
}

func (c PayRequestConsumer) Handle(ctx context.Context, payload []byte) error {
	logger := application.ResolveLogger(c.Logger)

	var event events.OrderPayRequestEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode pay request event: %w", err))
	}
	paymentID, err := uuid.Parse(event.PaymentID)
	if err != nil {
		return consumer.Permanent(fmt.Errorf("pay request for order %d carries invalid payment id %q", event.OrderID, event.PaymentID))
	}

	created, err := c.Payments.CreateIfAbsent(ctx, entities.Payment{
		ID:          paymentID,
		OrderID:     event.OrderID,
		AmountCents: event.AmountCents,
		Provider:    event.Provider,
		Status:      entities.PaymentStatusPending,
	})
	if err != nil {
		return err
	}

	if !created {
		logger.Debug("pay request replayed, payment already exists",
			"event", "pay_request_duplicate",
			"module", "payments",
			"layer", "worker",
			"payment_id", paymentID.String(),
		)
		return nil
	}

	logger.Info("payment opened",
		"event", "payment_opened",
		"module", "payments",
		"layer", "worker",
		"payment_id", paymentID.String(),
		"order_id", event.OrderID,
		"amount_cents", event.AmountCents,
		"provider", event.Provider,
	)
	return nil
}
