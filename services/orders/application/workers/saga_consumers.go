package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	application "medbook/services/orders/application"
	"medbook/services/orders/domain/entities"
	"medbook/services/orders/ports"
)

// OrderReservedConsumer advances PENDING→RESERVED when the inventory service
// confirms the reservation.
type OrderReservedConsumer struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (c OrderReservedConsumer) Handle(ctx context.Context, payload []byte) error {
	var event events.OrderReservedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode order reserved event: %w", err))
	}
	return applyTransition(ctx, c.Orders, c.Logger, event.OrderID,
		entities.OrderStatusPending, entities.OrderStatusReserved)
}

// OrderRejectedConsumer terminates the saga at PENDING→REJECTED.
type OrderRejectedConsumer struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (c OrderRejectedConsumer) Handle(ctx context.Context, payload []byte) error {
	var event events.OrderRejectedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode order rejected event: %w", err))
	}
	return applyTransition(ctx, c.Orders, c.Logger, event.OrderID,
		entities.OrderStatusPending, entities.OrderStatusRejected)
}

// PaymentSuccessConsumer moves the order to PAYMENT_SUCCESS and hands the
// saga to the delivery service in the same transaction.
type PaymentSuccessConsumer struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (c PaymentSuccessConsumer) Handle(ctx context.Context, payload []byte) error {
	logger := application.ResolveLogger(c.Logger)

	var event events.OrderPaymentSuccessEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode payment success event: %w", err))
	}

	applied, err := c.Orders.TransitionStatusWithEvent(ctx, event.OrderID,
		entities.OrderStatusPaymentProcessing, entities.OrderStatusPaymentSuccess,
		events.TopicDeliveryOrderSuccess, events.DeliveryOrderSuccessEvent{OrderID: event.OrderID})
	if err != nil {
		return err
	}
	if !applied {
		logStale(logger, event.OrderID, entities.OrderStatusPaymentSuccess)
		return nil
	}

	logger.Info("order paid, delivery requested",
		"event", "order_payment_success_applied",
		"module", "orders",
		"layer", "worker",
		"order_id", event.OrderID,
		"payment_id", event.PaymentID,
	)
	return nil
}

// DeliveryStatusConsumer advances the delivery leg of the order. The final
// DELIVERED hop also asks inventory to convert the reservation into a sale.
type DeliveryStatusConsumer struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (c DeliveryStatusConsumer) Handle(ctx context.Context, payload []byte) error {
	logger := application.ResolveLogger(c.Logger)

	var event events.DeliveryStatusChangedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode delivery status event: %w", err))
	}

	target, ok := entities.DeliveryStatus(event.Status)
	if !ok {
		return consumer.Permanent(fmt.Errorf("unknown delivery status %q for order %d", event.Status, event.OrderID))
	}
	prior, _ := target.Prior()

	if target == entities.OrderStatusDelivered {
		applied, err := c.Orders.TransitionStatusWithEvent(ctx, event.OrderID, prior, target,
			events.TopicStockSold, events.StockSoldEvent{OrderID: event.OrderID})
		if err != nil {
			return err
		}
		if !applied {
			logStale(logger, event.OrderID, target)
		}
		return nil
	}

	return applyTransition(ctx, c.Orders, c.Logger, event.OrderID, prior, target)
}

func applyTransition(ctx context.Context, orders ports.OrderRepository, logger *slog.Logger, orderID int, from, to entities.OrderStatus) error {
	applied, err := orders.TransitionStatus(ctx, orderID, from, to)
	if err != nil {
		return err
	}
	resolved := application.ResolveLogger(logger)
	if !applied {
		logStale(resolved, orderID, to)
		return nil
	}
	resolved.Info("order status advanced",
		"event", "order_status_advanced",
		"module", "orders",
		"layer", "worker",
		"order_id", orderID,
		"from", string(from),
		"to", string(to),
	)
	return nil
}

// logStale records a redelivered or out-of-order event that found no row in
// the expected prior status. The message is acked; state never regresses.
func logStale(logger *slog.Logger, orderID int, to entities.OrderStatus) {
	logger.Debug("order transition skipped, already applied or stale",
		"event", "order_transition_stale",
		"module", "orders",
		"layer", "worker",
		"order_id", orderID,
		"to", string(to),
	)
}
