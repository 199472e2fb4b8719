package catalog

import (
	"context"

	domproduct "github.com/trinibuild/storefront/internal/domain/product"
	domstore "github.com/trinibuild/storefront/internal/domain/store"
)

type StoreRepository interface {
	domstore.Repository
}

type ProductRepository interface {
	List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error)
}

// Storefront is one store's public page: the profile plus its active
// product list.
type Storefront struct {
	Store    *domstore.Store
	Products []*domproduct.Product
}

type Service struct {
	storeRepo   StoreRepository
	productRepo ProductRepository
}

func NewService(storeRepo StoreRepository, productRepo ProductRepository) *Service {
	return &Service{
		storeRepo:   storeRepo,
		productRepo: productRepo,
	}
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Storefront, error) {
	st, err := s.storeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, st)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Storefront, error) {
	st, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, st)
}

func (s *Service) load(ctx context.Context, st *domstore.Store) (*Storefront, error) {
	products, err := s.productRepo.List(ctx, domproduct.ListFilter{
		StoreID:    st.ID,
		OnlyActive: true,
	})
	if err != nil {
		return nil, err
	}
	return &Storefront{Store: st, Products: products}, nil
}
