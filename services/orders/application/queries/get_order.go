package queries

import (
	"context"
	"log/slog"

	"medbook/services/orders/domain/entities"
	domainerrors "medbook/services/orders/domain/errors"
	"medbook/services/orders/ports"
)

type GetOrderUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

// Execute loads one order, enforcing the single-owner rule: a patient can
// only read their own orders.
func (u GetOrderUseCase) Execute(ctx context.Context, orderID int, patientID int) (entities.Order, error) {
	order, err := u.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if order.PatientID != patientID {
		return entities.Order{}, domainerrors.ErrForbidden
	}
	return order, nil
}

type ListOrdersUseCase struct {
	Orders ports.OrderRepository
	Logger *slog.Logger
}

func (u ListOrdersUseCase) Execute(ctx context.Context, patientID int) ([]entities.Order, error) {
	return u.Orders.ListOrdersByPatient(ctx, patientID)
}
