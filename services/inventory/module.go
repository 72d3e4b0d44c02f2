package inventory

import (
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	httpadapter "medbook/services/inventory/adapters/http"
	"medbook/services/inventory/application/commands"
	"medbook/services/inventory/application/queries"
	"medbook/services/inventory/application/workers"
	"medbook/services/inventory/ports"
)

type Dependencies struct {
	Inventory ports.InventoryRepository
	Logger    *slog.Logger
}

// Module bundles the inventory service's HTTP surface and event consumers.
type Module struct {
	Handler httpadapter.Handler

	orderRequested workers.OrderRequestedConsumer
	stockSold      workers.StockSoldConsumer
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			ListProducts: queries.ListProductsUseCase{Inventory: deps.Inventory, Logger: deps.Logger},
			GetInventory: queries.GetInventoryUseCase{Inventory: deps.Inventory, Logger: deps.Logger},
			Logger:       deps.Logger,
		},
		orderRequested: workers.OrderRequestedConsumer{
			Reserve: commands.ReserveStockUseCase{Inventory: deps.Inventory, Logger: deps.Logger},
			Logger:  deps.Logger,
		},
		stockSold: workers.StockSoldConsumer{
			MarkSold: commands.MarkStockSoldUseCase{Inventory: deps.Inventory, Logger: deps.Logger},
			Logger:   deps.Logger,
		},
	}
}

// RegisterConsumers binds every queue the inventory service listens on.
func (m Module) RegisterConsumers(registry *consumer.Registry) error {
	if err := registry.Bind(events.TopicOrderRequested, m.orderRequested); err != nil {
		return err
	}
	return registry.Bind(events.TopicStockSold, m.stockSold)
}
