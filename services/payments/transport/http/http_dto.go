package http

type PaymentDTO struct {
	PaymentID     string `json:"payment_id"`
	OrderID       int    `json:"order_id"`
	AmountCents   int64  `json:"amount_cents"`
	Provider      string `json:"provider"`
	Status        string `json:"status"`
	ProviderRef   string `json:"provider_ref,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type ListPaymentsResponse struct {
	Payments []PaymentDTO `json:"payments"`
}

type ConfirmPaymentRequest struct {
	Result        string `json:"result"`
	ProviderRef   string `json:"provider_ref,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}
