package orders

import (
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	httpadapter "medbook/services/orders/adapters/http"
	"medbook/services/orders/application/commands"
	"medbook/services/orders/application/queries"
	"medbook/services/orders/application/workers"
	"medbook/services/orders/ports"
)

// Dependencies are the adapter implementations the module runs on. The
// bootstrap wires postgres and the catalog HTTP client; tests wire the
// memory store.
type Dependencies struct {
	Orders      ports.OrderRepository
	Catalog     ports.CatalogGateway
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Module bundles the orders service's HTTP surface and event consumers.
type Module struct {
	Handler httpadapter.Handler

	reserved       workers.OrderReservedConsumer
	rejected       workers.OrderRejectedConsumer
	paymentSuccess workers.PaymentSuccessConsumer
	deliveryStatus workers.DeliveryStatusConsumer
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CreateOrder: commands.CreateOrderUseCase{
				Orders:  deps.Orders,
				Catalog: deps.Catalog,
				Logger:  deps.Logger,
			},
			RequestPayment: commands.RequestPaymentUseCase{
				Orders:      deps.Orders,
				IDGenerator: deps.IDGenerator,
				Logger:      deps.Logger,
			},
			GetOrder:   queries.GetOrderUseCase{Orders: deps.Orders, Logger: deps.Logger},
			ListOrders: queries.ListOrdersUseCase{Orders: deps.Orders, Logger: deps.Logger},
			Logger:     deps.Logger,
		},
		reserved:       workers.OrderReservedConsumer{Orders: deps.Orders, Logger: deps.Logger},
		rejected:       workers.OrderRejectedConsumer{Orders: deps.Orders, Logger: deps.Logger},
		paymentSuccess: workers.PaymentSuccessConsumer{Orders: deps.Orders, Logger: deps.Logger},
		deliveryStatus: workers.DeliveryStatusConsumer{Orders: deps.Orders, Logger: deps.Logger},
	}
}

// RegisterConsumers binds every queue the orders service listens on.
func (m Module) RegisterConsumers(registry *consumer.Registry) error {
	bindings := []struct {
		queue   string
		handler consumer.Handler
	}{
		{events.TopicOrderReserved, m.reserved},
		{events.TopicOrderRejected, m.rejected},
		{events.TopicPaymentSuccess, m.paymentSuccess},
		{events.TopicDeliveryStatusChanged, m.deliveryStatus},
	}
	for _, binding := range bindings {
		if err := registry.Bind(binding.queue, binding.handler); err != nil {
			return err
		}
	}
	return nil
}
