package commands

import (
	"context"
	"log/slog"

	application "medbook/services/inventory/application"
	"medbook/services/inventory/ports"
)

type MarkStockSoldCommand struct {
	OrderID int
}

// MarkStockSoldUseCase converts a delivered order's holds into sales. The
// ledger's RESERVED→SOLD condition makes replays a no-op.
type MarkStockSoldUseCase struct {
	Inventory ports.InventoryRepository
	Logger    *slog.Logger
}

func (u MarkStockSoldUseCase) Execute(ctx context.Context, cmd MarkStockSoldCommand) error {
	logger := application.ResolveLogger(u.Logger)

	converted, err := u.Inventory.MarkOrderSold(ctx, cmd.OrderID)
	if err != nil {
		logger.Error("stock sale conversion failed",
			"event", "mark_stock_sold_failed",
			"module", "inventory",
			"layer", "application",
			"order_id", cmd.OrderID,
			"error", err.Error(),
		)
		return err
	}

	if converted == 0 {
		logger.Debug("stock sale replayed, no reserved ledger rows",
			"event", "mark_stock_sold_duplicate",
			"module", "inventory",
			"layer", "application",
			"order_id", cmd.OrderID,
		)
		return nil
	}

	logger.Info("stock sold",
		"event", "stock_sold",
		"module", "inventory",
		"layer", "application",
		"order_id", cmd.OrderID,
		"lines", converted,
	)
	return nil
}
