package postgres

import (
	"context"
	"database/sql"
	"errors"

	domstore "github.com/trinibuild/storefront/internal/domain/store"
)

type StoreRepository struct {
	db *sql.DB
}

func NewStoreRepository(db *sql.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domstore.Store, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, slug, name, description, whatsapp, location, email, currency, is_active
        FROM stores WHERE id = $1
    `, id)
	return scanStore(row)
}

func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*domstore.Store, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, slug, name, description, whatsapp, location, email, currency, is_active
        FROM stores WHERE slug = $1 AND is_active
    `, slug)
	return scanStore(row)
}

func scanStore(row *sql.Row) (*domstore.Store, error) {
	var s domstore.Store
	err := row.Scan(&s.ID, &s.Slug, &s.Name, &s.Description, &s.WhatsApp,
		&s.Location, &s.Email, &s.Currency, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domstore.ErrStoreNotFound
		}
		return nil, err
	}
	return &s, nil
}
