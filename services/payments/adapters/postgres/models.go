package postgresadapter

import (
	"time"

	"github.com/google/uuid"

	"medbook/services/payments/domain/entities"
)

type paymentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       int       `gorm:"not null;index"`
	AmountCents   int64     `gorm:"not null"`
	Provider      string    `gorm:"size:32;not null"`
	Status        string    `gorm:"size:16;not null"`
	ProviderRef   *string
	FailureReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (paymentModel) TableName() string { return "payments" }

func (m paymentModel) toEntity() entities.Payment {
	payment := entities.Payment{
		ID:          m.ID,
		OrderID:     m.OrderID,
		AmountCents: m.AmountCents,
		Provider:    m.Provider,
		Status:      entities.PaymentStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.ProviderRef != nil {
		payment.ProviderRef = *m.ProviderRef
	}
	if m.FailureReason != nil {
		payment.FailureReason = *m.FailureReason
	}
	return payment
}

// Models lists every table the payments service owns, for migration.
func Models() []any {
	return []any{&paymentModel{}}
}
