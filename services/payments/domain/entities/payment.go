package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle of one payment attempt. A finalized payment
// never changes again.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment is the payments service's aggregate. Its id is minted by the orders
// service and carried on the pay-request event, so a redelivered request maps
// onto the same row instead of a second charge.
type Payment struct {
	ID            uuid.UUID
	OrderID       int
	AmountCents   int64
	Provider      string
	Status        PaymentStatus
	ProviderRef   string
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
