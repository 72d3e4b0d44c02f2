package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"medbook/internal/shared/events"
	"medbook/internal/shared/outbox"
	"medbook/services/inventory/domain/entities"
	domainerrors "medbook/services/inventory/domain/errors"
	"medbook/services/inventory/ports"
)

// errStockShort aborts the reservation transaction so every already-applied
// line rolls back. It never escapes ReserveOrder.
var errStockShort = errors.New("inventory: stock short")

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

func (r *Repository) ReserveOrder(ctx context.Context, orderID int, lines []entities.ReservationLine) (ports.ReservationOutcome, error) {
	outcome := ports.ReservationApplied

	// errDuplicateOrder aborts the transaction when a concurrent replay beat
	// us to the ledger insert.
	errDuplicateOrder := errors.New("inventory: order already reserved")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&reservationModel{}).
			Where("order_id = ?", orderID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			outcome = ports.ReservationDuplicate
			return nil
		}

		// The availability check and the increment are one statement; two
		// competing orders can never both pass on the same last units.
		for _, line := range lines {
			result := tx.Model(&inventoryModel{}).
				Where("product_id = ? AND total_quantity - reserved_quantity - sold_quantity >= ?",
					line.ProductID, line.Quantity).
				Updates(map[string]any{
					"reserved_quantity": gorm.Expr("reserved_quantity + ?", line.Quantity),
					"updated_at":        time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errStockShort
			}
		}

		ledger := make([]reservationModel, 0, len(lines))
		for _, line := range lines {
			ledger = append(ledger, reservationModel{
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Status:    string(entities.ReservationReserved),
			})
		}
		if err := tx.Create(&ledger).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return errDuplicateOrder
			}
			return err
		}

		return r.outbox.Enqueue(tx, events.TopicOrderReserved, events.OrderReservedEvent{OrderID: orderID})
	})
	if errors.Is(err, errStockShort) {
		return ports.ReservationInsufficient, nil
	}
	if errors.Is(err, errDuplicateOrder) {
		return ports.ReservationDuplicate, nil
	}
	if err != nil {
		return ports.ReservationUnknown, err
	}
	return outcome, nil
}

func (r *Repository) RejectOrder(ctx context.Context, orderID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.outbox.Enqueue(tx, events.TopicOrderRejected, events.OrderRejectedEvent{OrderID: orderID})
	})
}

func (r *Repository) MarkOrderSold(ctx context.Context, orderID int) (int, error) {
	converted := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var held []reservationModel
		if err := tx.Where("order_id = ? AND status = ?", orderID, string(entities.ReservationReserved)).
			Order("product_id ASC").
			Find(&held).Error; err != nil {
			return err
		}
		if len(held) == 0 {
			return nil
		}

		for _, row := range held {
			// The conditional flip is the claim on the line. A concurrent
			// duplicate delivery loses it and must not touch the counters.
			flip := tx.Model(&reservationModel{}).
				Where("order_id = ? AND product_id = ? AND status = ?",
					orderID, row.ProductID, string(entities.ReservationReserved)).
				Updates(map[string]any{
					"status":     string(entities.ReservationSold),
					"updated_at": time.Now().UTC(),
				})
			if flip.Error != nil {
				return flip.Error
			}
			if flip.RowsAffected == 0 {
				continue
			}

			result := tx.Model(&inventoryModel{}).
				Where("product_id = ?", row.ProductID).
				Updates(map[string]any{
					"reserved_quantity": gorm.Expr("reserved_quantity - ?", row.Quantity),
					"sold_quantity":     gorm.Expr("sold_quantity + ?", row.Quantity),
					"updated_at":        time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			converted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return converted, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var rows []productModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]entities.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toEntity())
	}
	return products, nil
}

func (r *Repository) GetInventory(ctx context.Context, productID int) (entities.InventoryRecord, error) {
	var row inventoryModel
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.InventoryRecord{}, domainerrors.ErrProductNotFound
		}
		return entities.InventoryRecord{}, err
	}
	return row.toEntity(), nil
}
