package http

type ProductDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
}

type ListProductsResponse []ProductDTO

type InventoryResponse struct {
	ProductID        int `json:"product_id"`
	TotalQuantity    int `json:"total_quantity"`
	ReservedQuantity int `json:"reserved_quantity"`
	SoldQuantity     int `json:"sold_quantity"`
	Available        int `json:"available"`
}
