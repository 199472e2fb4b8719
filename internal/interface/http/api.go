package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/trinibuild/storefront/internal/domain/cart"
	domcheckout "github.com/trinibuild/storefront/internal/domain/checkout"
	domdiscount "github.com/trinibuild/storefront/internal/domain/discount"
	dommerchant "github.com/trinibuild/storefront/internal/domain/merchant"
	domorder "github.com/trinibuild/storefront/internal/domain/order"
	domproduct "github.com/trinibuild/storefront/internal/domain/product"
	domstore "github.com/trinibuild/storefront/internal/domain/store"
	authuc "github.com/trinibuild/storefront/internal/usecase/auth"
	cataloguc "github.com/trinibuild/storefront/internal/usecase/catalog"
	checkoutuc "github.com/trinibuild/storefront/internal/usecase/checkout"
	orderuc "github.com/trinibuild/storefront/internal/usecase/order"
	productuc "github.com/trinibuild/storefront/internal/usecase/product"
)

type API struct {
	authSvc     *authuc.Service
	catalogSvc  *cataloguc.Service
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	productSvc  *productuc.Service
	validator   *validator.Validate
	tokenSvc    authuc.TokenService
}

type Dependencies struct {
	AuthService     *authuc.Service
	CatalogService  *cataloguc.Service
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	ProductService  *productuc.Service
	TokenService    authuc.TokenService
}

func NewAPI(deps Dependencies) *API {
	return &API{
		authSvc:     deps.AuthService,
		catalogSvc:  deps.CatalogService,
		checkoutSvc: deps.CheckoutService,
		orderSvc:    deps.OrderService,
		productSvc:  deps.ProductService,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)

		r.Get("/stores/{slug}", a.handleGetStorefront)
		r.Post("/stores/{slug}/checkout", a.handleCreateSession)

		r.Route("/checkout/{sessionID}", func(cr chi.Router) {
			cr.Get("/", a.handleGetSession)
			cr.Post("/items", a.handleAddItem)
			cr.Delete("/items/{productID}", a.handleRemoveItem)
			cr.Put("/shipping", a.handleSetShipping)
			cr.Put("/delivery", a.handleSelectDelivery)
			cr.Put("/payment", a.handleSelectPayment)
			cr.Post("/next", a.handleNext)
			cr.Post("/back", a.handleBack)
			cr.Post("/discount", a.handleApplyDiscount)
			cr.Post("/verify-phone", a.handleRequestPhoneCode)
			cr.Post("/confirm-phone", a.handleConfirmPhoneCode)
			cr.Post("/submit", a.handleSubmit)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProducts)
					rr.Post("/", a.handleCreateProduct)
					rr.Get("/{id}", a.handleGetProduct)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.Patch("/{id}", a.handleUpdateOrderStatus)
				})
			})
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func mapStore(s *domstore.Store) map[string]any {
	return map[string]any{
		"id":          s.ID,
		"slug":        s.Slug,
		"name":        s.Name,
		"description": s.Description,
		"whatsapp":    s.WhatsApp,
		"location":    s.Location,
		"email":       s.Email,
		"currency":    s.Currency,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"store_id":    p.StoreID,
		"name":        p.Name,
		"description": p.Description,
		"unit_price":  p.UnitPrice,
		"stock":       p.Stock,
		"category":    p.Category,
		"is_active":   p.IsActive,
	}
}

func mapLine(l cart.Line) map[string]any {
	return map[string]any{
		"product_id": l.ProductID,
		"name":       l.Name,
		"unit_price": l.UnitPrice,
		"quantity":   l.Quantity,
		"line_total": l.LineTotal(),
	}
}

func mapSnapshot(s checkoutuc.Snapshot) map[string]any {
	lines := make([]map[string]any, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, mapLine(l))
	}

	out := map[string]any{
		"session_id": s.SessionID,
		"store_id":   s.StoreID,
		"state":      s.State,
		"step":       s.Step,
		"of":         s.Of,
		"lines":      lines,
		"shipping": map[string]any{
			"name":    s.Shipping.Name,
			"phone":   s.Shipping.Phone,
			"address": s.Shipping.Address,
			"city":    s.Shipping.City,
			"notes":   s.Shipping.Notes,
		},
		"delivery_option": s.Delivery,
		"schedule":        s.Schedule,
		"scheduled_date":  s.ScheduledDate,
		"phone_verified":  s.PhoneVerified,
		"discount_code":   s.DiscountCode,
		"totals": map[string]any{
			"subtotal":     s.Totals.Subtotal,
			"discount":     s.Totals.Discount,
			"delivery_fee": s.Totals.DeliveryFee,
			"total":        s.Totals.Total,
		},
	}
	if s.PaymentSelected {
		out["payment_method"] = s.PaymentMethod
	}
	return out
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"unit_price": item.UnitPrice,
			"quantity":   item.Quantity,
		})
	}

	return map[string]any{
		"id":             o.ID,
		"order_number":   o.OrderNumber,
		"store_id":       o.StoreID,
		"status":         o.Status,
		"payment_method": o.PaymentMethod,
		"delivery":       o.Delivery,
		"schedule":       o.Schedule,
		"scheduled_date": o.ScheduledDate,
		"phone_verified": o.PhoneVerified,
		"discount_code":  o.DiscountCode,
		"customer": map[string]any{
			"name":    o.Shipping.Name,
			"phone":   o.Shipping.Phone,
			"address": o.Shipping.Address,
			"city":    o.Shipping.City,
			"notes":   o.Shipping.Notes,
		},
		"subtotal":     o.Subtotal,
		"discount":     o.Discount,
		"delivery_fee": o.DeliveryFee,
		"total":        o.Total,
		"created_at":   o.CreatedAt,
		"items":        items,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	var vErr *domcheckout.ValidationError
	if errors.As(err, &vErr) {
		fields := make([]map[string]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			fields = append(fields, map[string]string{"field": f.Field, "message": f.Message})
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: vErr.Error(), Details: fields})
		return
	}

	switch {
	case errors.Is(err, domstore.ErrStoreNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, checkoutuc.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, dommerchant.ErrUnauthorized),
		errors.Is(err, dommerchant.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domcheckout.ErrSessionComplete),
		errors.Is(err, domcheckout.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domcheckout.ErrEmptyCart),
		errors.Is(err, domcheckout.ErrPaymentUnavailable),
		errors.Is(err, domcheckout.ErrNoPaymentSelected),
		errors.Is(err, domcheckout.ErrDiscountApplied),
		errors.Is(err, domcheckout.ErrPhoneNotRequested),
		errors.Is(err, domcheckout.ErrInvalidCode),
		errors.Is(err, checkoutuc.ErrInvalidPhone),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, domdiscount.ErrCodeNotFound),
		errors.Is(err, domdiscount.ErrCodeInactive),
		errors.Is(err, domdiscount.ErrBelowMinimum),
		errors.Is(err, domdiscount.ErrInvalidAmount),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domorder.ErrIllegalTransition),
		errors.Is(err, domorder.ErrEmptyOrderItems):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
