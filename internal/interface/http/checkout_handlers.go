package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

var errInvalidQuantity = errors.New("quantity must be a positive integer")

func (a *API) handleGetStorefront(w http.ResponseWriter, r *http.Request) {
	sf, err := a.catalogSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	products := make([]map[string]any, 0, len(sf.Products))
	for _, p := range sf.Products {
		products = append(products, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"store":    mapStore(sf.Store),
		"products": products,
	})
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := a.checkoutSvc.Create(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSnapshot(snap))
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := a.checkoutSvc.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (a *API) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := a.checkoutSvc.AddItem(r.Context(), chi.URLParam(r, "sessionID"), req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	quantity := int64(1)
	if q := r.URL.Query().Get("quantity"); q != "" {
		parsed, err := strconv.ParseInt(q, 10, 64)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, errInvalidQuantity)
			return
		}
		quantity = parsed
	}

	snap, err := a.checkoutSvc.RemoveItem(chi.URLParam(r, "sessionID"), chi.URLParam(r, "productID"), quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

type shippingRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

func (a *API) handleSetShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := a.checkoutSvc.SetShipping(chi.URLParam(r, "sessionID"), domorder.ShippingDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Notes:   req.Notes,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

type deliveryRequest struct {
	DeliveryOption string `json:"delivery_option" validate:"required"`
	Schedule       string `json:"schedule" validate:"required"`
	ScheduledDate  string `json:"scheduled_date"`
}

func (a *API) handleSelectDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := a.checkoutSvc.SelectDelivery(chi.URLParam(r, "sessionID"),
		domorder.DeliveryOption(req.DeliveryOption),
		domorder.ScheduleOption(req.Schedule),
		req.ScheduledDate)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

type paymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func (a *API) handleSelectPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := a.checkoutSvc.SelectPayment(chi.URLParam(r, "sessionID"),
		domorder.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleNext(w http.ResponseWriter, r *http.Request) {
	snap, err := a.checkoutSvc.Next(chi.URLParam(r, "sessionID"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleBack(w http.ResponseWriter, r *http.Request) {
	snap, err := a.checkoutSvc.Back(chi.URLParam(r, "sessionID"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

type discountRequest struct {
	Code string `json:"code" validate:"required"`
}

func (a *API) handleApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := a.checkoutSvc.ApplyDiscount(r.Context(), chi.URLParam(r, "sessionID"), req.Code)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

func (a *API) handleRequestPhoneCode(w http.ResponseWriter, r *http.Request) {
	if err := a.checkoutSvc.RequestPhoneCode(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "code sent"})
}

type confirmPhoneRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

func (a *API) handleConfirmPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req confirmPhoneRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := a.checkoutSvc.ConfirmPhoneCode(chi.URLParam(r, "sessionID"), req.Code)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(snap))
}

type submitRequest struct {
	AllowFallback bool `json:"allow_fallback"`
}

// handleSubmit places the order. A gateway failure answers 502 with the
// session still retryable; the optional local reference rides along in
// the error details so the storefront can show order continuity.
func (a *API) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.checkoutSvc.Submit(r.Context(), chi.URLParam(r, "sessionID"), req.AllowFallback)
	if err != nil {
		if res != nil {
			details := map[string]any{"session": mapSnapshot(res.Snapshot)}
			if res.FallbackReference != "" {
				details["fallback_reference"] = res.FallbackReference
			}
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Details: details})
			return
		}
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session":       mapSnapshot(res.Snapshot),
		"order":         mapOrder(res.Order),
		"whatsapp_link": res.WhatsAppLink,
	})
}
