package ports

import (
	"context"

	"medbook/internal/shared/events"
	"medbook/services/orders/domain/entities"
)

// OrderRepository owns order persistence and the transaction boundaries that
// pair state changes with their outbox events.
type OrderRepository interface {
	// CreateOrderWithOutbox atomically persists the order, its items and the
	// order-requested outbox entry. The returned order carries the generated id.
	CreateOrderWithOutbox(ctx context.Context, order entities.Order) (entities.Order, error)
	GetOrder(ctx context.Context, orderID int) (entities.Order, error)
	ListOrdersByPatient(ctx context.Context, patientID int) ([]entities.Order, error)

	// TransitionStatus applies from→to in one conditional update and reports
	// whether a row was affected. False means the order was absent or not in
	// the expected prior status; callers treat that as an already-applied or
	// stale event, never as a reason to force the write.
	TransitionStatus(ctx context.Context, orderID int, from, to entities.OrderStatus) (bool, error)

	// TransitionStatusWithEvent additionally enqueues one outbox event inside
	// the same transaction, but only when the transition applied.
	TransitionStatusWithEvent(ctx context.Context, orderID int, from, to entities.OrderStatus, eventType string, payload any) (bool, error)

	// BeginPayment conditionally moves RESERVED→PAYMENT_PROCESSING, stamps the
	// minted payment id and enqueues the pay-request event atomically.
	BeginPayment(ctx context.Context, orderID int, paymentID string, event events.OrderPayRequestEvent) (bool, error)
}

// CatalogGateway prices a cart against the inventory service's product
// catalog. Read-only and synchronous; unavailability must surface as a
// retryable error to the HTTP caller, never corrupt saga state.
type CatalogGateway interface {
	GetPrices(ctx context.Context, productIDs []int) (map[int]int64, error)
}

// IDGenerator mints payment identifiers ahead of the pay-request event so the
// payments service can create its row idempotently.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
