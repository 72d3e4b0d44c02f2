package ports

import (
	"context"

	"medbook/services/delivery/domain/entities"
)

// DeliveryRepository is the storage contract of the delivery service. The
// status-change events ride inside the same transactions as the writes.
type DeliveryRepository interface {
	// CreateIfAbsent opens the delivery in PREPARING and enqueues the first
	// status event. A redelivered order-success event finds the unique
	// order id taken and creates nothing.
	CreateIfAbsent(ctx context.Context, orderID int) (bool, error)

	GetByOrder(ctx context.Context, orderID int) (entities.Delivery, error)

	// AdvanceStatus applies from→to conditionally and enqueues the status
	// event when a row moved.
	AdvanceStatus(ctx context.Context, orderID int, from, to entities.DeliveryStatus) (bool, error)
}
