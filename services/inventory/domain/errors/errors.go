package errors

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock to reserve")
	ErrEmptyReservation  = errors.New("reservation has no lines")
)
