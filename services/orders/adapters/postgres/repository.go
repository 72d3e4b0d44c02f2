package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"medbook/internal/shared/events"
	"medbook/internal/shared/outbox"
	"medbook/services/orders/domain/entities"
	domainerrors "medbook/services/orders/domain/errors"
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

func (r *Repository) CreateOrderWithOutbox(ctx context.Context, order entities.Order) (entities.Order, error) {
	row := orderModel{
		PatientID:  order.PatientID,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		itemRows := make([]orderItemModel, 0, len(order.Items))
		eventItems := make([]events.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			itemRows = append(itemRows, orderItemModel{
				OrderID:   row.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
			eventItems = append(eventItems, events.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if len(itemRows) > 0 {
			if err := tx.Create(&itemRows).Error; err != nil {
				return err
			}
		}

		return r.outbox.Enqueue(tx, events.TopicOrderRequested, events.OrderRequestedEvent{
			OrderID:    row.ID,
			OrderItems: eventItems,
		})
	})
	if err != nil {
		return entities.Order{}, err
	}

	created := order
	created.ID = row.ID
	created.CreatedAt = row.CreatedAt
	created.UpdatedAt = row.UpdatedAt
	return created, nil
}

func (r *Repository) GetOrder(ctx context.Context, orderID int) (entities.Order, error) {
	var row orderModel
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, domainerrors.ErrOrderNotFound
		}
		return entities.Order{}, err
	}

	var items []orderItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("product_id ASC").
		Find(&items).Error; err != nil {
		return entities.Order{}, err
	}
	return row.toEntity(items), nil
}

func (r *Repository) ListOrdersByPatient(ctx context.Context, patientID int) ([]entities.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity(nil))
	}
	return orders, nil
}

func (r *Repository) TransitionStatus(ctx context.Context, orderID int, from, to entities.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&orderModel{}).
		Where("id = ? AND status = ?", orderID, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) TransitionStatusWithEvent(ctx context.Context, orderID int, from, to entities.OrderStatus, eventType string, payload any) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderModel{}).
			Where("id = ? AND status = ?", orderID, string(from)).
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
		return r.outbox.Enqueue(tx, eventType, payload)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *Repository) BeginPayment(ctx context.Context, orderID int, paymentID string, event events.OrderPayRequestEvent) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderModel{}).
			Where("id = ? AND status = ?", orderID, string(entities.OrderStatusReserved)).
			Updates(map[string]any{
				"status":     string(entities.OrderStatusPaymentProcessing),
				"payment_id": paymentID,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true
		return r.outbox.Enqueue(tx, events.TopicPayRequest, event)
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
