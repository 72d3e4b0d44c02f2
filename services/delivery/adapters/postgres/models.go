package postgresadapter

import (
	"time"

	"medbook/services/delivery/domain/entities"
)

type deliveryModel struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	OrderID   int    `gorm:"uniqueIndex;not null"`
	Status    string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (deliveryModel) TableName() string { return "deliveries" }

func (m deliveryModel) toEntity() entities.Delivery {
	return entities.Delivery{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Status:    entities.DeliveryStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Models lists every table the delivery service owns, for migration.
func Models() []any {
	return []any{&deliveryModel{}}
}
