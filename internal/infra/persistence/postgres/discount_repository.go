package postgres

import (
	"context"
	"database/sql"
	"errors"

	domdiscount "github.com/trinibuild/storefront/internal/domain/discount"
	"github.com/trinibuild/storefront/internal/domain/money"
)

type DiscountRepository struct {
	db *sql.DB
}

func NewDiscountRepository(db *sql.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// Validate resolves the code within the store and checks it against the
// current subtotal. Codes are stored uppercase; lookup is
// case-insensitive.
func (r *DiscountRepository) Validate(ctx context.Context, storeID, code string, subtotal money.Cents) (*domdiscount.Discount, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT code, store_id, kind, amount, min_subtotal, is_active
        FROM discounts
        WHERE store_id = $1 AND code = UPPER($2)
    `, storeID, code)

	var d domdiscount.Discount
	err := row.Scan(&d.Code, &d.StoreID, &d.Type, &d.Amount, &d.MinSubtotal, &d.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domdiscount.ErrCodeNotFound
		}
		return nil, err
	}

	if !d.IsActive {
		return nil, domdiscount.ErrCodeInactive
	}
	if subtotal < d.MinSubtotal {
		return nil, domdiscount.ErrBelowMinimum
	}
	if !d.Type.IsValid() || d.Amount < 0 {
		return nil, domdiscount.ErrInvalidAmount
	}
	return &d, nil
}
