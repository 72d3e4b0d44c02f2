package delivery

import (
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	httpadapter "medbook/services/delivery/adapters/http"
	"medbook/services/delivery/application/commands"
	"medbook/services/delivery/application/queries"
	"medbook/services/delivery/application/workers"
	"medbook/services/delivery/ports"
)

type Dependencies struct {
	Deliveries ports.DeliveryRepository
	Logger     *slog.Logger
}

// Module bundles the delivery service's HTTP surface and event consumer.
type Module struct {
	Handler httpadapter.Handler

	orderSuccess workers.OrderSuccessConsumer
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			UpdateStatus: commands.UpdateStatusUseCase{Deliveries: deps.Deliveries, Logger: deps.Logger},
			GetDelivery:  queries.GetDeliveryUseCase{Deliveries: deps.Deliveries, Logger: deps.Logger},
			Logger:       deps.Logger,
		},
		orderSuccess: workers.OrderSuccessConsumer{Deliveries: deps.Deliveries, Logger: deps.Logger},
	}
}

// RegisterConsumers binds every queue the delivery service listens on.
func (m Module) RegisterConsumers(registry *consumer.Registry) error {
	return registry.Bind(events.TopicDeliveryOrderSuccess, m.orderSuccess)
}
