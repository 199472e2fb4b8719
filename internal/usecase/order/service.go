package order

import (
	"context"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

// Service is the merchant back office view of orders. Every operation is
// scoped to the merchant's own store; an order belonging to another store
// is reported as not found rather than as forbidden.
type Service struct {
	repo domorder.Repository
}

func NewService(repo domorder.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByStore(ctx context.Context, storeID string) ([]*domorder.Order, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *Service) GetByID(ctx context.Context, storeID, id string) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.StoreID != storeID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

// UpdateStatus moves an order along its lifecycle. The target status must
// be a known one and reachable from the order's current status.
func (s *Service) UpdateStatus(ctx context.Context, storeID, id string, status domorder.Status) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}

	current, err := s.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, domorder.ErrIllegalTransition
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
