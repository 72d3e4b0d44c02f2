package postgresadapter

import (
	"time"

	"medbook/services/inventory/domain/entities"
)

type productModel struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:255;not null"`
	Description string
	PriceCents  int64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productModel) TableName() string { return "products" }

func (m productModel) toEntity() entities.Product {
	return entities.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
	}
}

type inventoryModel struct {
	ProductID        int `gorm:"primaryKey"`
	TotalQuantity    int `gorm:"not null"`
	ReservedQuantity int `gorm:"not null;default:0"`
	SoldQuantity     int `gorm:"not null;default:0"`
	UpdatedAt        time.Time
}

func (inventoryModel) TableName() string { return "inventory" }

func (m inventoryModel) toEntity() entities.InventoryRecord {
	return entities.InventoryRecord{
		ProductID:        m.ProductID,
		TotalQuantity:    m.TotalQuantity,
		ReservedQuantity: m.ReservedQuantity,
		SoldQuantity:     m.SoldQuantity,
	}
}

// reservationModel is the ledger row that makes reservation and sale
// conversion idempotent under redelivery.
type reservationModel struct {
	OrderID   int    `gorm:"primaryKey"`
	ProductID int    `gorm:"primaryKey"`
	Quantity  int    `gorm:"not null"`
	Status    string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (reservationModel) TableName() string { return "reservations" }

// Models lists every table the inventory service owns, for migration.
func Models() []any {
	return []any{&productModel{}, &inventoryModel{}, &reservationModel{}}
}
