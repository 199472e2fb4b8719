package order

import "context"

type Repository interface {
	// Create persists the order and all of its items as one atomic
	// write: either the order row and every item row land, or nothing
	// does. No identifier is allocated unless the write succeeds.
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByStore(ctx context.Context, storeID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}
