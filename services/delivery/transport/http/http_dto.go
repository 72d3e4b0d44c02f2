package http

type DeliveryResponse struct {
	DeliveryID int    `json:"delivery_id"`
	OrderID    int    `json:"order_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
