package store

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Store, error)
	GetBySlug(ctx context.Context, slug string) (*Store, error)
}
