package commands

import (
	"context"
	"log/slog"

	application "medbook/services/delivery/application"
	"medbook/services/delivery/domain/entities"
	domainerrors "medbook/services/delivery/domain/errors"
	"medbook/services/delivery/ports"
)

type UpdateStatusCommand struct {
	OrderID int
	Status  string
}

// UpdateStatusUseCase applies a trusted courier update. Transitions are
// stepwise and forward-only; the status event and the row update commit
// together.
type UpdateStatusUseCase struct {
	Deliveries ports.DeliveryRepository
	Logger     *slog.Logger
}

func (u UpdateStatusUseCase) Execute(ctx context.Context, cmd UpdateStatusCommand) (entities.Delivery, error) {
	logger := application.ResolveLogger(u.Logger)

	target, ok := entities.ParseStatus(cmd.Status)
	if !ok {
		return entities.Delivery{}, domainerrors.ErrInvalidStatus
	}
	prior, ok := target.Prior()
	if !ok {
		// PREPARING is the creation status; PATCHing back to it is a
		// backward move.
		return entities.Delivery{}, domainerrors.ErrInvalidTransition
	}

	if _, err := u.Deliveries.GetByOrder(ctx, cmd.OrderID); err != nil {
		return entities.Delivery{}, err
	}

	applied, err := u.Deliveries.AdvanceStatus(ctx, cmd.OrderID, prior, target)
	if err != nil {
		logger.Error("delivery status update failed",
			"event", "delivery_status_update_failed",
			"module", "delivery",
			"layer", "application",
			"order_id", cmd.OrderID,
			"error", err.Error(),
		)
		return entities.Delivery{}, err
	}
	if !applied {
		return entities.Delivery{}, domainerrors.ErrInvalidTransition
	}

	logger.Info("delivery status advanced",
		"event", "delivery_status_advanced",
		"module", "delivery",
		"layer", "application",
		"order_id", cmd.OrderID,
		"status", string(target),
	)
	return u.Deliveries.GetByOrder(ctx, cmd.OrderID)
}
