package errors

import "errors"

var (
	ErrDeliveryNotFound  = errors.New("delivery not found")
	ErrInvalidStatus     = errors.New("unknown delivery status")
	ErrInvalidTransition = errors.New("delivery status can only move forward")
)
