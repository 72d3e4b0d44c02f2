package events

// Cross-service integration events. Payloads are the canonical wire contract
// between the four saga services; topic name doubles as queue name with the
// convention "<consumer-service>.<event_name>".

const (
	TopicOrderRequested        = "inventory.order_requested"
	TopicStockSold             = "inventory.stock_sold"
	TopicOrderReserved         = "orders.order_reserved"
	TopicOrderRejected         = "orders.order_rejected"
	TopicPaymentSuccess        = "orders.payment_success"
	TopicDeliveryStatusChanged = "orders.delivery_status"
	TopicPayRequest            = "payments.pay_request"
	TopicDeliveryOrderSuccess  = "delivery.order_success"
)

type OrderItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderRequestedEvent asks the inventory service to reserve stock for a
// freshly created order.
type OrderRequestedEvent struct {
	OrderID    int         `json:"order_id"`
	OrderItems []OrderItem `json:"order_items"`
}

type OrderReservedEvent struct {
	OrderID int `json:"order_id"`
}

type OrderRejectedEvent struct {
	OrderID int `json:"order_id"`
}

// OrderPayRequestEvent carries the payment identity minted by the orders
// service so the payments service can create the row idempotently.
type OrderPayRequestEvent struct {
	PaymentID   string `json:"payment_id"`
	OrderID     int    `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Provider    string `json:"provider"`
}

type OrderPaymentSuccessEvent struct {
	PaymentID   string `json:"payment_id"`
	OrderID     int    `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Provider    string `json:"provider"`
}

type DeliveryOrderSuccessEvent struct {
	OrderID int `json:"order_id"`
}

// DeliveryStatusChangedEvent reports a trusted courier-side status update so
// the orders service can advance the order through its delivery leg.
type DeliveryStatusChangedEvent struct {
	OrderID int    `json:"order_id"`
	Status  string `json:"status"`
}

// StockSoldEvent tells the inventory service to convert an order's reserved
// units into sold units once the order is delivered.
type StockSoldEvent struct {
	OrderID int `json:"order_id"`
}
