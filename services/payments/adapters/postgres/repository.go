package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medbook/internal/shared/events"
	"medbook/internal/shared/outbox"
	"medbook/services/payments/domain/entities"
	domainerrors "medbook/services/payments/domain/errors"
)

type Repository struct {
	db     *gorm.DB
	outbox *outbox.Store
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, outboxStore *outbox.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, outbox: outboxStore, logger: logger}
}

func (r *Repository) CreateIfAbsent(ctx context.Context, payment entities.Payment) (bool, error) {
	row := paymentModel{
		ID:          payment.ID,
		OrderID:     payment.OrderID,
		AmountCents: payment.AmountCents,
		Provider:    payment.Provider,
		Status:      string(payment.Status),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) GetPayment(ctx context.Context, id uuid.UUID) (entities.Payment, error) {
	var row paymentModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Payment{}, domainerrors.ErrPaymentNotFound
		}
		return entities.Payment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPayments(ctx context.Context) ([]entities.Payment, error) {
	var rows []paymentModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]entities.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.toEntity())
	}
	return payments, nil
}

func (r *Repository) MarkSucceeded(ctx context.Context, id uuid.UUID, providerRef string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row paymentModel
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrPaymentNotFound
			}
			return err
		}

		result := tx.Model(&paymentModel{}).
			Where("id = ? AND status = ?", id, string(entities.PaymentStatusPending)).
			Updates(map[string]any{
				"status":       string(entities.PaymentStatusSuccess),
				"provider_ref": providerRef,
				"updated_at":   time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		return r.outbox.Enqueue(tx, events.TopicPaymentSuccess, events.OrderPaymentSuccessEvent{
			PaymentID:   id.String(),
			OrderID:     row.OrderID,
			AmountCents: row.AmountCents,
			Provider:    row.Provider,
		})
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("id = ? AND status = ?", id, string(entities.PaymentStatusPending)).
		Updates(map[string]any{
			"status":         string(entities.PaymentStatusFailed),
			"failure_reason": reason,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
