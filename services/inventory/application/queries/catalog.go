package queries

import (
	"context"
	"log/slog"

	"medbook/services/inventory/domain/entities"
	"medbook/services/inventory/ports"
)

type ListProductsUseCase struct {
	Inventory ports.InventoryRepository
	Logger    *slog.Logger
}

func (u ListProductsUseCase) Execute(ctx context.Context) ([]entities.Product, error) {
	return u.Inventory.ListProducts(ctx)
}

type GetInventoryUseCase struct {
	Inventory ports.InventoryRepository
	Logger    *slog.Logger
}

func (u GetInventoryUseCase) Execute(ctx context.Context, productID int) (entities.InventoryRecord, error) {
	return u.Inventory.GetInventory(ctx, productID)
}
