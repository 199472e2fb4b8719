package merchant

import "errors"

var (
	ErrMerchantNotFound  = errors.New("merchant not found")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUnauthorized      = errors.New("unauthorized")
)
