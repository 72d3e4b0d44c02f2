package queries

import (
	"context"
	"log/slog"

	"medbook/services/delivery/domain/entities"
	"medbook/services/delivery/ports"
)

type GetDeliveryUseCase struct {
	Deliveries ports.DeliveryRepository
	Logger     *slog.Logger
}

func (u GetDeliveryUseCase) Execute(ctx context.Context, orderID int) (entities.Delivery, error) {
	return u.Deliveries.GetByOrder(ctx, orderID)
}
