package discount

import "errors"

var (
	ErrCodeNotFound  = errors.New("discount code not found")
	ErrCodeInactive  = errors.New("discount code is no longer active")
	ErrBelowMinimum  = errors.New("cart subtotal is below the code's minimum")
	ErrInvalidAmount = errors.New("discount has an invalid amount")
)
