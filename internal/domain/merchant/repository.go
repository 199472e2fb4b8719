package merchant

import "context"

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Merchant, error)
	GetByID(ctx context.Context, id string) (*Merchant, error)
}
