package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("transition not allowed from current state")
	ErrSessionComplete    = errors.New("checkout session already completed")
	ErrPaymentUnavailable = errors.New("payment method is coming soon and cannot be used yet")
	ErrNoPaymentSelected  = errors.New("no payment method selected")
	ErrDiscountApplied    = errors.New("discount code already applied")
	ErrPhoneNotRequested  = errors.New("no verification code was requested")
	ErrInvalidCode        = errors.New("invalid verification code")
)

// FieldError scopes a validation message to the offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of a step at once, so the
// shopper sees all problems together instead of fixing them one by one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
