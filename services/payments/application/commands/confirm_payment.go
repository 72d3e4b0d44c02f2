package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	application "medbook/services/payments/application"
	"medbook/services/payments/domain/entities"
	domainerrors "medbook/services/payments/domain/errors"
	"medbook/services/payments/ports"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type ConfirmPaymentCommand struct {
	PaymentID     uuid.UUID
	Result        string
	ProviderRef   string
	FailureReason string
}

// ConfirmPaymentUseCase applies the provider's verdict. The endpoint stands
// in for a provider webhook; the conditional PENDING check makes a repeated
// confirmation a 409 instead of a second payment-success event.
type ConfirmPaymentUseCase struct {
	Payments ports.PaymentRepository
	Logger   *slog.Logger
}

func (u ConfirmPaymentUseCase) Execute(ctx context.Context, cmd ConfirmPaymentCommand) (entities.Payment, error) {
	logger := application.ResolveLogger(u.Logger)

	result := strings.ToLower(strings.TrimSpace(cmd.Result))
	if result != ResultSuccess && result != ResultFailure {
		return entities.Payment{}, domainerrors.ErrInvalidResult
	}

	if _, err := u.Payments.GetPayment(ctx, cmd.PaymentID); err != nil {
		return entities.Payment{}, err
	}

	var applied bool
	var err error
	if result == ResultSuccess {
		applied, err = u.Payments.MarkSucceeded(ctx, cmd.PaymentID, cmd.ProviderRef)
	} else {
		applied, err = u.Payments.MarkFailed(ctx, cmd.PaymentID, cmd.FailureReason)
	}
	if err != nil {
		logger.Error("payment finalization failed",
			"event", "confirm_payment_failed",
			"module", "payments",
			"layer", "application",
			"payment_id", cmd.PaymentID.String(),
			"error", err.Error(),
		)
		return entities.Payment{}, err
	}
	if !applied {
		return entities.Payment{}, domainerrors.ErrPaymentFinalized
	}

	payment, err := u.Payments.GetPayment(ctx, cmd.PaymentID)
	if err != nil {
		return entities.Payment{}, err
	}

	logger.Info("payment finalized",
		"event", "payment_finalized",
		"module", "payments",
		"layer", "application",
		"payment_id", payment.ID.String(),
		"order_id", payment.OrderID,
		"status", string(payment.Status),
	)
	return payment, nil
}
