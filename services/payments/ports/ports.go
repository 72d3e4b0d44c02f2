package ports

import (
	"context"

	"github.com/google/uuid"

	"medbook/services/payments/domain/entities"
)

// PaymentRepository is the storage contract of the payments service.
type PaymentRepository interface {
	// CreateIfAbsent inserts the payment when its id is new and reports
	// whether a row was created. A redelivered pay request finds the existing
	// row and creates nothing.
	CreateIfAbsent(ctx context.Context, payment entities.Payment) (bool, error)

	GetPayment(ctx context.Context, id uuid.UUID) (entities.Payment, error)
	ListPayments(ctx context.Context) ([]entities.Payment, error)

	// MarkSucceeded finalizes a PENDING payment and enqueues the success
	// event in the same transaction. It reports whether the row was still
	// PENDING.
	MarkSucceeded(ctx context.Context, id uuid.UUID, providerRef string) (bool, error)

	// MarkFailed finalizes a PENDING payment as FAILED. No event flows back;
	// the order stays in PAYMENT_PROCESSING until the patient retries through
	// a fresh payment.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}
