package errors

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrForbidden          = errors.New("order belongs to another patient")
	ErrEmptyOrder         = errors.New("order has no purchasable items")
	ErrUnknownProduct     = errors.New("order references an unknown product")
	ErrInvalidProvider    = errors.New("payment provider is not supported")
	ErrOrderNotPayable    = errors.New("order is not in a payable state")
	ErrCatalogUnavailable = errors.New("product catalog is unreachable")
)
