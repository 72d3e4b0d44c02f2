package entities

import "time"

// DeliveryStatus is the courier-side leg of an order. Transitions only move
// forward, one hop at a time.
type DeliveryStatus string

const (
	DeliveryStatusPreparing DeliveryStatus = "PREPARING"
	DeliveryStatusEnRoute   DeliveryStatus = "EN_ROUTE"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
)

var priorStatus = map[DeliveryStatus]DeliveryStatus{
	DeliveryStatusEnRoute:   DeliveryStatusPreparing,
	DeliveryStatusDelivered: DeliveryStatusEnRoute,
}

// Prior returns the status a delivery must currently hold for the transition
// into s to apply. PREPARING has no prior; it only exists at creation.
func (s DeliveryStatus) Prior() (DeliveryStatus, bool) {
	prior, ok := priorStatus[s]
	return prior, ok
}

// ParseStatus validates a raw courier status.
func ParseStatus(raw string) (DeliveryStatus, bool) {
	switch DeliveryStatus(raw) {
	case DeliveryStatusPreparing, DeliveryStatusEnRoute, DeliveryStatusDelivered:
		return DeliveryStatus(raw), true
	default:
		return "", false
	}
}

// Delivery tracks one order's shipment. One row per order; the unique
// order id is what makes the order-success event replay-safe.
type Delivery struct {
	ID        int
	OrderID   int
	Status    DeliveryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
