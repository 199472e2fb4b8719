package product

import "github.com/trinibuild/storefront/internal/domain/money"

type Product struct {
	ID          string
	StoreID     string
	Name        string
	Description string
	UnitPrice   money.Cents
	Stock       int64
	Category    string
	IsActive    bool
}

type ListFilter struct {
	StoreID    string
	Category   string
	Search     string
	OnlyActive bool
}
