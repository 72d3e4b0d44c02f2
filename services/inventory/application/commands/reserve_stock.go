package commands

import (
	"context"
	"log/slog"
	"sort"

	application "medbook/services/inventory/application"
	"medbook/services/inventory/domain/entities"
	domainerrors "medbook/services/inventory/domain/errors"
	"medbook/services/inventory/ports"
)

type ReserveStockCommand struct {
	OrderID int
	Lines   []entities.ReservationLine
}

// ReserveStockUseCase answers an order-requested event: reserve every line or
// reject the whole order. The reservation, its ledger rows and the
// confirmation event commit together; a rejection touches no counter and is
// recorded in a transaction of its own.
type ReserveStockUseCase struct {
	Inventory ports.InventoryRepository
	Logger    *slog.Logger
}

func (u ReserveStockUseCase) Execute(ctx context.Context, cmd ReserveStockCommand) (ports.ReservationOutcome, error) {
	logger := application.ResolveLogger(u.Logger)

	lines := normalizeLines(cmd.Lines)
	if len(lines) == 0 {
		return ports.ReservationUnknown, domainerrors.ErrEmptyReservation
	}

	outcome, err := u.Inventory.ReserveOrder(ctx, cmd.OrderID, lines)
	if err != nil {
		logger.Error("stock reservation failed",
			"event", "reserve_stock_failed",
			"module", "inventory",
			"layer", "application",
			"order_id", cmd.OrderID,
			"error", err.Error(),
		)
		return ports.ReservationUnknown, err
	}

	switch outcome {
	case ports.ReservationApplied:
		logger.Info("stock reserved",
			"event", "stock_reserved",
			"module", "inventory",
			"layer", "application",
			"order_id", cmd.OrderID,
			"lines", len(lines),
		)
	case ports.ReservationDuplicate:
		logger.Debug("reservation replayed, ledger already holds the order",
			"event", "stock_reservation_duplicate",
			"module", "inventory",
			"layer", "application",
			"order_id", cmd.OrderID,
		)
	case ports.ReservationInsufficient:
		if err := u.Inventory.RejectOrder(ctx, cmd.OrderID); err != nil {
			return ports.ReservationUnknown, err
		}
		logger.Info("order rejected, stock not covered",
			"event", "stock_reservation_rejected",
			"module", "inventory",
			"layer", "application",
			"order_id", cmd.OrderID,
		)
	}
	return outcome, nil
}

// normalizeLines drops non-positive quantities, folds duplicate products and
// sorts ascending so every transaction locks inventory rows in one global
// order.
func normalizeLines(lines []entities.ReservationLine) []entities.ReservationLine {
	byProduct := make(map[int]int)
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		byProduct[line.ProductID] += line.Quantity
	}

	normalized := make([]entities.ReservationLine, 0, len(byProduct))
	for productID, quantity := range byProduct {
		normalized = append(normalized, entities.ReservationLine{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i].ProductID < normalized[j].ProductID })
	return normalized
}
