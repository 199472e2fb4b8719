package postgres

import (
	"context"
	"database/sql"
	"errors"

	dommerchant "github.com/trinibuild/storefront/internal/domain/merchant"
)

type MerchantRepository struct {
	db *sql.DB
}

func NewMerchantRepository(db *sql.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) GetByEmail(ctx context.Context, email string) (*dommerchant.Merchant, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, store_id, name, email, password_hash
        FROM merchants WHERE email = $1
    `, email)
	return scanMerchant(row)
}

func (r *MerchantRepository) GetByID(ctx context.Context, id string) (*dommerchant.Merchant, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, store_id, name, email, password_hash
        FROM merchants WHERE id = $1
    `, id)
	return scanMerchant(row)
}

func scanMerchant(row *sql.Row) (*dommerchant.Merchant, error) {
	var m dommerchant.Merchant
	err := row.Scan(&m.ID, &m.StoreID, &m.Name, &m.Email, &m.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dommerchant.ErrMerchantNotFound
		}
		return nil, err
	}
	return &m, nil
}
