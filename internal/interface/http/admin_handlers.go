package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trinibuild/storefront/internal/domain/money"
	domorder "github.com/trinibuild/storefront/internal/domain/order"
	domproduct "github.com/trinibuild/storefront/internal/domain/product"
)

type productRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
	Stock       int64  `json:"stock" validate:"gte=0"`
	Category    string `json:"category"`
	IsActive    bool   `json:"is_active"`
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	q := r.URL.Query()
	products, err := a.productSvc.List(r.Context(), domproduct.ListFilter{
		StoreID:    m.StoreID,
		Category:   q.Get("category"),
		Search:     q.Get("search"),
		OnlyActive: q.Get("active") == "true",
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(products))
	for _, p := range products {
		out = append(out, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req productRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	created, err := a.productSvc.Create(r.Context(), m.StoreID, &domproduct.Product{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   money.Cents(req.UnitPrice),
		Stock:       req.Stock,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(created))
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	p, err := a.productSvc.GetByID(r.Context(), m.StoreID, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

type updateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price" validate:"gte=0"`
	Stock       int64  `json:"stock" validate:"gte=0"`
	Category    string `json:"category"`
	IsActive    bool   `json:"is_active"`
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req updateProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := a.productSvc.Update(r.Context(), m.StoreID, &domproduct.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   money.Cents(req.UnitPrice),
		Stock:       req.Stock,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(updated))
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	if err := a.productSvc.Delete(r.Context(), m.StoreID, chi.URLParam(r, "id")); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	orders, err := a.orderSvc.ListByStore(r.Context(), m.StoreID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	o, err := a.orderSvc.GetByID(r.Context(), m.StoreID, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	m := getAuthMerchant(r.Context())
	if m == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.UpdateStatus(r.Context(), m.StoreID, chi.URLParam(r, "id"),
		domorder.Status(req.Status))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}
