package commands

import (
	"context"
	"log/slog"
	"sort"

	application "medbook/services/orders/application"
	"medbook/services/orders/domain/entities"
	domainerrors "medbook/services/orders/domain/errors"
	"medbook/services/orders/ports"
)

type CreateOrderCommand struct {
	PatientID int
	Items     []entities.OrderItem
}

type CreateOrderUseCase struct {
	Orders  ports.OrderRepository
	Catalog ports.CatalogGateway
	Logger  *slog.Logger
}

// Execute prices the cart, then persists the order, its items and the
// order-requested outbox entry in one transaction. Catalog unavailability is
// surfaced as a retryable error before anything is written.
func (u CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (entities.Order, error) {
	logger := application.ResolveLogger(u.Logger)

	items := mergeItems(cmd.Items)
	if len(items) == 0 {
		return entities.Order{}, domainerrors.ErrEmptyOrder
	}

	productIDs := make([]int, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	prices, err := u.Catalog.GetPrices(ctx, productIDs)
	if err != nil {
		logger.Error("catalog lookup failed",
			"event", "create_order_catalog_failed",
			"module", "orders",
			"layer", "application",
			"patient_id", cmd.PatientID,
			"error", err.Error(),
		)
		return entities.Order{}, err
	}

	var total int64
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			return entities.Order{}, domainerrors.ErrUnknownProduct
		}
		total += price * int64(item.Quantity)
	}

	created, err := u.Orders.CreateOrderWithOutbox(ctx, entities.Order{
		PatientID:  cmd.PatientID,
		Status:     entities.OrderStatusPending,
		TotalCents: total,
		Items:      items,
	})
	if err != nil {
		logger.Error("order persistence failed",
			"event", "create_order_persist_failed",
			"module", "orders",
			"layer", "application",
			"patient_id", cmd.PatientID,
			"error", err.Error(),
		)
		return entities.Order{}, err
	}

	logger.Info("order created",
		"event", "order_created",
		"module", "orders",
		"layer", "application",
		"order_id", created.ID,
		"patient_id", created.PatientID,
		"total_cents", created.TotalCents,
	)
	return created, nil
}

// mergeItems drops non-positive quantities and folds duplicate product lines
// into one, keeping a stable ascending product order.
func mergeItems(items []entities.OrderItem) []entities.OrderItem {
	byProduct := make(map[int]int)
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		byProduct[item.ProductID] += item.Quantity
	}

	merged := make([]entities.OrderItem, 0, len(byProduct))
	for productID, quantity := range byProduct {
		merged = append(merged, entities.OrderItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}
