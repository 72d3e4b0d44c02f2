package payments

import (
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	httpadapter "medbook/services/payments/adapters/http"
	"medbook/services/payments/application/commands"
	"medbook/services/payments/application/queries"
	"medbook/services/payments/application/workers"
	"medbook/services/payments/ports"
)

type Dependencies struct {
	Payments ports.PaymentRepository
	Logger   *slog.Logger
}

// Module bundles the payments service's HTTP surface and event consumer.
type Module struct {
	Handler httpadapter.Handler

	payRequest workers.PayRequestConsumer
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			ConfirmPayment: commands.ConfirmPaymentUseCase{Payments: deps.Payments, Logger: deps.Logger},
			GetPayment:     queries.GetPaymentUseCase{Payments: deps.Payments, Logger: deps.Logger},
			ListPayments:   queries.ListPaymentsUseCase{Payments: deps.Payments, Logger: deps.Logger},
			Logger:         deps.Logger,
		},
		payRequest: workers.PayRequestConsumer{Payments: deps.Payments, Logger: deps.Logger},
	}
}

// RegisterConsumers binds every queue the payments service listens on.
func (m Module) RegisterConsumers(registry *consumer.Registry) error {
	return registry.Bind(events.TopicPayRequest, m.payRequest)
}
