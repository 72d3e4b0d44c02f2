package entities

import "time"

// OrderStatus is the saga stage of an order. Transitions are linear except
// for the PENDING fork into RESERVED or REJECTED; REJECTED is terminal.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusReserved          OrderStatus = "RESERVED"
	OrderStatusRejected          OrderStatus = "REJECTED"
	OrderStatusPaymentProcessing OrderStatus = "PAYMENT_PROCESSING"
	OrderStatusPaymentSuccess    OrderStatus = "PAYMENT_SUCCESS"
	OrderStatusPreparing         OrderStatus = "PREPARING"
	OrderStatusEnRoute           OrderStatus = "EN_ROUTE"
	OrderStatusDelivered         OrderStatus = "DELIVERED"
)

// expectedPrior is the single legal predecessor of each non-initial status.
// Conditional updates against this table are what make event redelivery and
// out-of-order redelivery safe: a stale event finds zero rows to update.
var expectedPrior = map[OrderStatus]OrderStatus{
	OrderStatusReserved:          OrderStatusPending,
	OrderStatusRejected:          OrderStatusPending,
	OrderStatusPaymentProcessing: OrderStatusReserved,
	OrderStatusPaymentSuccess:    OrderStatusPaymentProcessing,
	OrderStatusPreparing:         OrderStatusPaymentSuccess,
	OrderStatusEnRoute:           OrderStatusPreparing,
	OrderStatusDelivered:         OrderStatusEnRoute,
}

// Prior returns the status an order must currently hold for the transition
// into s to apply.
func (s OrderStatus) Prior() (OrderStatus, bool) {
	prior, ok := expectedPrior[s]
	return prior, ok
}

// DeliveryStatus maps a courier-side delivery status onto the order leg it
// advances. Unknown statuses report false.
func DeliveryStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderStatusPreparing, OrderStatusEnRoute, OrderStatusDelivered:
		return OrderStatus(raw), true
	default:
		return "", false
	}
}

type OrderItem struct {
	ProductID int
	Quantity  int
}

// Order is the saga-owning aggregate of the orders service. Peers never write
// it directly; they advance it only through events.
type Order struct {
	ID         int
	PatientID  int
	Status     OrderStatus
	PaymentID  string
	TotalCents int64
	Items      []OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
