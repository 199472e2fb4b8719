package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	domproduct "github.com/trinibuild/storefront/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO products (id, store_id, name, description, unit_price, stock, category, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, id, p.StoreID, p.Name, p.Description, p.UnitPrice, p.Stock, p.Category, p.IsActive)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE products
        SET name = $1, description = $2, unit_price = $3, stock = $4, category = $5, is_active = $6
        WHERE id = $7
    `, p.Name, p.Description, p.UnitPrice, p.Stock, p.Category, p.IsActive, p.ID)
	if err != nil {
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, domproduct.ErrProductNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, store_id, name, description, unit_price, stock, category, is_active
        FROM products WHERE id = $1
    `, id)

	var p domproduct.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.UnitPrice,
		&p.Stock, &p.Category, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	query := `
        SELECT id, store_id, name, description, unit_price, stock, category, is_active
        FROM products
        WHERE store_id = $1
          AND ($2 = '' OR category = $2)
          AND ($3 = '' OR name ILIKE '%' || $3 || '%')
          AND (NOT $4 OR is_active)
        ORDER BY name
    `
	rows, err := r.db.QueryContext(ctx, query,
		filter.StoreID, filter.Category, filter.Search, filter.OnlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*domproduct.Product, error) {
	var products []*domproduct.Product
	for rows.Next() {
		var p domproduct.Product
		err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.UnitPrice,
			&p.Stock, &p.Category, &p.IsActive)
		if err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
