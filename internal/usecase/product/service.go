package product

import (
	"context"

	dom "github.com/trinibuild/storefront/internal/domain/product"
)

// Service is the merchant's product management surface. Operations are
// scoped to the merchant's store: a product owned by another store is
// reported as not found.
type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, storeID string, p *dom.Product) (*dom.Product, error) {
	p.StoreID = storeID
	return s.repo.Create(ctx, p)
}

// Update applies partial changes on top of the stored product. Zero
// values for name, description, price and category mean "leave as is";
// stock and active flag are always taken from the input.
func (s *Service) Update(ctx context.Context, storeID string, p *dom.Product) (*dom.Product, error) {
	existed, err := s.getOwned(ctx, storeID, p.ID)
	if err != nil {
		return nil, err
	}

	if p.Name != "" {
		existed.Name = p.Name
	}
	if p.Description != "" {
		existed.Description = p.Description
	}
	if p.UnitPrice > 0 {
		existed.UnitPrice = p.UnitPrice
	}
	if p.Stock >= 0 {
		existed.Stock = p.Stock
	}
	if p.Category != "" {
		existed.Category = p.Category
	}
	existed.IsActive = p.IsActive

	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, storeID, id string) error {
	if _, err := s.getOwned(ctx, storeID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, storeID, id string) (*dom.Product, error) {
	return s.getOwned(ctx, storeID, id)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) getOwned(ctx context.Context, storeID, id string) (*dom.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, dom.ErrProductNotFound
	}
	return p, nil
}
