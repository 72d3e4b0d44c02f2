package queries

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"medbook/services/payments/domain/entities"
	"medbook/services/payments/ports"
)

type GetPaymentUseCase struct {
	Payments ports.PaymentRepository
	Logger   *slog.Logger
}

func (u GetPaymentUseCase) Execute(ctx context.Context, id uuid.UUID) (entities.Payment, error) {
	return u.Payments.GetPayment(ctx, id)
}

type ListPaymentsUseCase struct {
	Payments ports.PaymentRepository
	Logger   *slog.Logger
}

func (u ListPaymentsUseCase) Execute(ctx context.Context) ([]entities.Payment, error) {
	return u.Payments.ListPayments(ctx)
}
