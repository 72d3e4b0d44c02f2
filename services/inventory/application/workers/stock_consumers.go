package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"medbook/internal/shared/consumer"
	"medbook/internal/shared/events"
	"medbook/services/inventory/application/commands"
	"medbook/services/inventory/domain/entities"
	domainerrors "medbook/services/inventory/domain/errors"
)

// OrderRequestedConsumer reserves stock for a new order. Business rejections
// are terminal outcomes, not failures: the rejection event flows back to the
// orders service and the delivery is acked.
type OrderRequestedConsumer struct {
	Reserve commands.ReserveStockUseCase
	Logger  *slog.Logger
}

func (c OrderRequestedConsumer) Handle(ctx context.Context, payload []byte) error {
	var event events.OrderRequestedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode order requested event: %w", err))
	}

	lines := make([]entities.ReservationLine, 0, len(event.OrderItems))
	for _, item := range event.OrderItems {
		lines = append(lines, entities.ReservationLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	_, err := c.Reserve.Execute(ctx, commands.ReserveStockCommand{OrderID: event.OrderID, Lines: lines})
	if errors.Is(err, domainerrors.ErrEmptyReservation) {
		return consumer.Permanent(fmt.Errorf("order %d: %w", event.OrderID, err))
	}
	return err
}

// StockSoldConsumer finalizes a delivered order's reservation.
type StockSoldConsumer struct {
	MarkSold commands.MarkStockSoldUseCase
	Logger   *slog.Logger
}

func (c StockSoldConsumer) Handle(ctx context.Context, payload []byte) error {
	var event events.StockSoldEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return consumer.Permanent(fmt.Errorf("decode stock sold event: %w", err))
	}
	return c.MarkSold.Execute(ctx, commands.MarkStockSoldCommand{OrderID: event.OrderID})
}
