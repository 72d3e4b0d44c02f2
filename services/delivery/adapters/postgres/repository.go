package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medbook/internal/shared/events"
	"medbook/internal/shared/outbox"
	"medbook/services/delivery/domain/entities"
	domainerrors "medbook/services/delivery/domain/errors"
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

func (r *Repository) CreateIfAbsent(ctx context.Context, orderID int) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := deliveryModel{
			OrderID: orderID,
			Status:  string(entities.DeliveryStatusPreparing),
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true

		return r.outbox.Enqueue(tx, events.TopicDeliveryStatusChanged, events.DeliveryStatusChangedEvent{
			OrderID: orderID,
			Status:  string(entities.DeliveryStatusPreparing),
		})
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *Repository) GetByOrder(ctx context.Context, orderID int) (entities.Delivery, error) {
	var row deliveryModel
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Delivery{}, domainerrors.ErrDeliveryNotFound
		}
		return entities.Delivery{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) AdvanceStatus(ctx context.Context, orderID int, from, to entities.DeliveryStatus) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&deliveryModel{}).
			Where("order_id = ? AND status = ?", orderID, string(from)).
			Updates(map[string]any{
				"status":     string(to),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		return r.outbox.Enqueue(tx, events.TopicDeliveryStatusChanged, events.DeliveryStatusChangedEvent{
			OrderID: orderID,
			Status:  string(to),
		})
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
