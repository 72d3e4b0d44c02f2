package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	application "medbook/services/delivery/application"
	"medbook/services/delivery/ports"
)

// OrderSuccessConsumer opens a delivery for a paid order. Creation starts the
// delivery leg of the order: the PREPARING status event rides in the same
// transaction.
type OrderSuccessConsumer struct {
	Deliveries ports.DeliveryRepository
	Logger     *slog.Logger
}

func (c OrderSuccessConsumer) Handle(ctx context.Context, payload []byte) error {
	logger := application.ResolveLogger(c.Logger)

	var event events.DeliveryOrderSuccessEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode order success event: %w", err))
	}

	created, err := c.Deliveries.CreateIfAbsent(ctx, event.OrderID)
	if err != nil {
		return err
	}

	if !created {
		logger.Debug("order success replayed, delivery already exists",
			"event", "delivery_create_duplicate",
			"module", "delivery",
			"layer", "worker",
			"order_id", event.OrderID,
		)
		return nil
	}

	logger.Info("delivery opened",
		"event", "delivery_opened",
		"module", "delivery",
		"layer", "worker",
		"order_id", event.OrderID,
	)
	return nil
}
