package errors

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPaymentFinalized = errors.New("payment is already finalized")
	ErrInvalidResult    = errors.New("confirmation result must be success or failure")
)
