package product

import "context"

type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
}
