package postgresadapter

import (
	"time"

	"medbook/services/orders/domain/entities"
)

type orderModel struct {
	ID         int    `gorm:"primaryKey;autoIncrement"`
	PatientID  int    `gorm:"not null;index"`
	Status     string `gorm:"size:32;not null"`
	PaymentID  *string
	TotalCents int64 `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (orderModel) TableName() string { return "orders" }

type orderItemModel struct {
	OrderID   int `gorm:"primaryKey"`
	ProductID int `gorm:"primaryKey"`
	Quantity  int `gorm:"not null"`
}

func (orderItemModel) TableName() string { return "order_items" }

func (m orderModel) toEntity(items []orderItemModel) entities.Order {
	order := entities.Order{
		ID:         m.ID,
		PatientID:  m.PatientID,
		Status:     entities.OrderStatus(m.Status),
		TotalCents: m.TotalCents,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.PaymentID != nil {
		order.PaymentID = *m.PaymentID
	}
	for _, item := range items {
		order.Items = append(order.Items, entities.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return order
}

// Models lists every table the orders service owns, for migration.
func Models() []any {
	return []any{&orderModel{}, &orderItemModel{}}
}
