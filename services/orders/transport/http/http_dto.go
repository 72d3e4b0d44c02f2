package http

type OrderItemDTO struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderItems []OrderItemDTO `json:"order_items"`
}

type OrderResponse struct {
	OrderID    int            `json:"order_id"`
	PatientID  int            `json:"patient_id"`
	Status     string         `json:"status"`
	PaymentID  string         `json:"payment_id,omitempty"`
	TotalCents int64          `json:"total_cents"`
	Items      []OrderItemDTO `json:"items"`
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type PayOrderRequest struct {
	Provider string `json:"provider"`
}

type PayOrderResponse struct {
	OrderID     int    `json:"order_id"`
	PaymentID   string `json:"payment_id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
}
