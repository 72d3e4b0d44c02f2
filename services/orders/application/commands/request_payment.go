package commands

import (
	"context"
	"log/slog"
	"strings"

	"medbook/internal/shared/events"
	application "medbook/services/orders/application"
	domainerrors "medbook/services/orders/domain/errors"
	"medbook/services/orders/ports"
)

// supportedProviders is the payment provider whitelist; anything else is a
// business rejection, not a retryable failure.
var supportedProviders = map[string]struct{}{
	"card":          {},
	"promptpay":     {},
	"bank_transfer": {},
}

type RequestPaymentCommand struct {
	OrderID   int
	PatientID int
	Provider  string
}

type RequestPaymentResult struct {
	PaymentID   string
	AmountCents int64
}

type RequestPaymentUseCase struct {
	Orders      ports.OrderRepository
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute mints the payment id and, in one transaction, moves the order
// RESERVED→PAYMENT_PROCESSING and enqueues the pay-request event carrying
// that id. A replayed or premature pay call finds no RESERVED row and is
// rejected without side effects.
func (u RequestPaymentUseCase) Execute(ctx context.Context, cmd RequestPaymentCommand) (RequestPaymentResult, error) {
	logger := application.ResolveLogger(u.Logger)

	provider := strings.ToLower(strings.TrimSpace(cmd.Provider))
	if _, ok := supportedProviders[provider]; !ok {
		return RequestPaymentResult{}, domainerrors.ErrInvalidProvider
	}

	order, err := u.Orders.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return RequestPaymentResult{}, err
	}
	if order.PatientID != cmd.PatientID {
		logger.Warn("pay request for foreign order denied",
			"event", "request_payment_forbidden",
			"module", "orders",
			"layer", "application",
			"order_id", cmd.OrderID,
			"patient_id", cmd.PatientID,
		)
		return RequestPaymentResult{}, domainerrors.ErrForbidden
	}

	paymentID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RequestPaymentResult{}, err
	}

	applied, err := u.Orders.BeginPayment(ctx, order.ID, paymentID, events.OrderPayRequestEvent{
		PaymentID:   paymentID,
		OrderID:     order.ID,
		AmountCents: order.TotalCents,
		Provider:    provider,
	})
	if err != nil {
		logger.Error("begin payment failed",
			"event", "request_payment_failed",
			"module", "orders",
			"layer", "application",
			"order_id", order.ID,
			"error", err.Error(),
		)
		return RequestPaymentResult{}, err
	}
	if !applied {
		return RequestPaymentResult{}, domainerrors.ErrOrderNotPayable
	}

	logger.Info("payment requested",
		"event", "payment_requested",
		"module", "orders",
		"layer", "application",
		"order_id", order.ID,
		"payment_id", paymentID,
		"provider", provider,
	)
	return RequestPaymentResult{PaymentID: paymentID, AmountCents: order.TotalCents}, nil
}
