package discount

import (
	"context"

	"github.com/trinibuild/storefront/internal/domain/money"
)

type Repository interface {
	// Validate resolves code within storeID against the current cart
	// subtotal and returns the discount if it may be applied.
	Validate(ctx context.Context, storeID, code string, subtotal money.Cents) (*Discount, error)
}
