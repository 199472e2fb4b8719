package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	domdiscount "github.com/trinibuild/storefront/internal/domain/discount"
	dommerchant "github.com/trinibuild/storefront/internal/domain/merchant"
	"github.com/trinibuild/storefront/internal/domain/money"
	domorder "github.com/trinibuild/storefront/internal/domain/order"
	domproduct "github.com/trinibuild/storefront/internal/domain/product"
	domstore "github.com/trinibuild/storefront/internal/domain/store"
	"github.com/trinibuild/storefront/internal/infra/security"
	authuc "github.com/trinibuild/storefront/internal/usecase/auth"
	cataloguc "github.com/trinibuild/storefront/internal/usecase/catalog"
	checkoutuc "github.com/trinibuild/storefront/internal/usecase/checkout"
	orderuc "github.com/trinibuild/storefront/internal/usecase/order"
	productuc "github.com/trinibuild/storefront/internal/usecase/product"
	"github.com/trinibuild/storefront/internal/usecase/submission"
)

// --- Mock repositories shared by the handler tests ---

type mockStoreRepo struct {
	stores map[string]*domstore.Store
}

func newMockStoreRepo() *mockStoreRepo {
	return &mockStoreRepo{stores: map[string]*domstore.Store{
		"aunty-maries": {
			ID:       "store-1",
			Slug:     "aunty-maries",
			Name:     "Aunty Marie's Kitchen",
			WhatsApp: "+18685557890",
			Currency: "TTD",
			IsActive: true,
		},
	}}
}

func (m *mockStoreRepo) GetByID(ctx context.Context, id string) (*domstore.Store, error) {
	for _, s := range m.stores {
		if s.ID == id {
			cloned := *s
			return &cloned, nil
		}
	}
	return nil, domstore.ErrStoreNotFound
}

func (m *mockStoreRepo) GetBySlug(ctx context.Context, slug string) (*domstore.Store, error) {
	if s, ok := m.stores[slug]; ok {
		cloned := *s
		return &cloned, nil
	}
	return nil, domstore.ErrStoreNotFound
}

type mockProductRepo struct {
	products map[string]*domproduct.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: map[string]*domproduct.Product{
		"p1": {ID: "p1", StoreID: "store-1", Name: "Doubles (6 pack)", UnitPrice: 4500, Stock: 10, Category: "food", IsActive: true},
		"p2": {ID: "p2", StoreID: "store-1", Name: "Pepper Sauce", UnitPrice: 2000, Stock: 5, Category: "condiments", IsActive: true},
		"p3": {ID: "p3", StoreID: "store-1", Name: "Retired", UnitPrice: 100, Stock: 5, IsActive: false},
	}}
}

func (m *mockProductRepo) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	cloned := *p
	cloned.ID = "p-new"
	m.products[cloned.ID] = &cloned
	out := cloned
	return &out, nil
}

func (m *mockProductRepo) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	if _, ok := m.products[p.ID]; !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	m.products[p.ID] = &cloned
	out := cloned
	return &out, nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return domproduct.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domproduct.Product, error) {
	if p, ok := m.products[id]; ok {
		cloned := *p
		return &cloned, nil
	}
	return nil, domproduct.ErrProductNotFound
}

func (m *mockProductRepo) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	var result []*domproduct.Product
	for _, p := range m.products {
		if filter.StoreID != "" && p.StoreID != filter.StoreID {
			continue
		}
		if filter.OnlyActive && !p.IsActive {
			continue
		}
		cloned := *p
		result = append(result, &cloned)
	}
	return result, nil
}

type mockDiscountRepo struct{}

func (m *mockDiscountRepo) Validate(ctx context.Context, storeID, code string, subtotal money.Cents) (*domdiscount.Discount, error) {
	if code == "SAVE10" && storeID == "store-1" {
		return &domdiscount.Discount{
			Code: "SAVE10", StoreID: storeID, Type: domdiscount.TypeFixed, Amount: 1000, IsActive: true,
		}, nil
	}
	return nil, domdiscount.ErrCodeNotFound
}

type mockOrderRepo struct {
	orders    map[string]*domorder.Order
	createErr error
	seq       int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*domorder.Order), seq: 1000}
}

func (m *mockOrderRepo) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.seq++
	cloned := *o
	cloned.ID = "order-" + cloned.StoreID
	cloned.OrderNumber = "ORD-1001"
	cloned.CreatedAt = time.Now()
	m.orders[cloned.ID] = &cloned
	out := cloned
	return &out, nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	if o, ok := m.orders[id]; ok {
		cloned := *o
		return &cloned, nil
	}
	return nil, domorder.ErrOrderNotFound
}

func (m *mockOrderRepo) ListByStore(ctx context.Context, storeID string) ([]*domorder.Order, error) {
	var result []*domorder.Order
	for _, o := range m.orders {
		if o.StoreID == storeID {
			cloned := *o
			result = append(result, &cloned)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	cloned := *o
	return &cloned, nil
}

type mockMerchantRepo struct {
	merchants map[string]*dommerchant.Merchant
}

func newMockMerchantRepo(hashed string) *mockMerchantRepo {
	return &mockMerchantRepo{merchants: map[string]*dommerchant.Merchant{
		"marie@auntymaries.tt": {
			ID: "m1", StoreID: "store-1", Name: "Marie Baptiste",
			Email: "marie@auntymaries.tt", PasswordHash: hashed,
		},
	}}
}

func (m *mockMerchantRepo) GetByEmail(ctx context.Context, email string) (*dommerchant.Merchant, error) {
	if mer, ok := m.merchants[email]; ok {
		cloned := *mer
		return &cloned, nil
	}
	return nil, dommerchant.ErrMerchantNotFound
}

func (m *mockMerchantRepo) GetByID(ctx context.Context, id string) (*dommerchant.Merchant, error) {
	for _, mer := range m.merchants {
		if mer.ID == id {
			cloned := *mer
			return &cloned, nil
		}
	}
	return nil, dommerchant.ErrMerchantNotFound
}

type mockWhatsAppHandoff struct{}

func (m *mockWhatsAppHandoff) Prepare(ctx context.Context, st *domstore.Store, o *domorder.Order) string {
	return "https://wa.me/18685557890?text=order"
}

type mockSMSSender struct {
	lastCode string
	sendErr  error
}

func (m *mockSMSSender) SendCode(ctx context.Context, phone, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.lastCode = code
	return nil
}

// --- Test harness ---

type testAPI struct {
	router    chi.Router
	orderRepo *mockOrderRepo
	smsSender *mockSMSSender
	tokenSvc  *security.JWTService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	storeRepo := newMockStoreRepo()
	productRepo := newMockProductRepo()
	orderRepo := newMockOrderRepo()
	smsSender := &mockSMSSender{}

	bcryptSvc := security.NewBcryptService(4)
	hashed, err := bcryptSvc.Hash("secret123")
	require.NoError(t, err)
	merchantRepo := newMockMerchantRepo(hashed)

	tokenSvc := security.NewJWTService("test-secret", time.Hour)
	submitter := submission.NewService(orderRepo, submission.DefaultFees, log)

	api := NewAPI(Dependencies{
		AuthService:    authuc.NewService(merchantRepo, bcryptSvc, tokenSvc),
		CatalogService: cataloguc.NewService(storeRepo, productRepo),
		CheckoutService: checkoutuc.NewService(
			storeRepo, productRepo, &mockDiscountRepo{},
			submitter, &mockWhatsAppHandoff{}, smsSender,
			time.Hour, log,
		),
		OrderService:   orderuc.NewService(orderRepo),
		ProductService: productuc.NewService(productRepo),
		TokenService:   tokenSvc,
	})

	return &testAPI{
		router:    api.Router(),
		orderRepo: orderRepo,
		smsSender: smsSender,
		tokenSvc:  tokenSvc,
	}
}

func (ta *testAPI) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- Storefront ---

func TestGetStorefront(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/api/v1/stores/aunty-maries", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	store := body["store"].(map[string]any)
	require.Equal(t, "Aunty Marie's Kitchen", store["name"])

	products := body["products"].([]any)
	require.Len(t, products, 2, "inactive products are not listed")
}

func TestGetStorefront_UnknownSlug(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/api/v1/stores/nowhere", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Checkout flow ---

func (ta *testAPI) createSession(t *testing.T) string {
	t.Helper()
	rec := ta.do(t, http.MethodPost, "/api/v1/stores/aunty-maries/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)["session_id"].(string)
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	totals := body["totals"].(map[string]any)
	require.Equal(t, float64(4500), totals["subtotal"])
	require.Equal(t, float64(7500), totals["total"], "running total includes the standard fee")

	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "shipping", decodeBody(t, rec)["state"])

	rec = ta.do(t, http.MethodPut, base+"/shipping", map[string]any{
		"name":    "Keisha Mohammed",
		"phone":   "868-555-0123",
		"address": "12 Ariapita Avenue",
		"city":    "Port of Spain",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "delivery_payment", decodeBody(t, rec)["state"])

	rec = ta.do(t, http.MethodPut, base+"/payment", map[string]any{"payment_method": "cash_on_delivery"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ta.do(t, http.MethodPost, base+"/submit", map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decodeBody(t, rec)

	order := body["order"].(map[string]any)
	require.Equal(t, "ORD-1001", order["order_number"])
	require.Equal(t, "pending", order["status"])
	require.Equal(t, float64(7500), order["total"])
	require.NotEmpty(t, body["whatsapp_link"])
	require.Equal(t, "success", body["session"].(map[string]any)["state"])
}

func TestCheckout_EmptyCartCannotAdvance(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)

	rec := ta.do(t, http.MethodPost, "/api/v1/checkout/"+id+"/next", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckout_ShippingValidationListsAllFields(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Straight to next with nothing entered.
	rec = ta.do(t, http.MethodPost, base+"/next", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := decodeBody(t, rec)["details"].([]any)
	require.Len(t, details, 3, "name, phone and address reported together")
}

func TestCheckout_ComingSoonPaymentRefused(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPut, base+"/payment", map[string]any{"payment_method": "bank_transfer"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decodeBody(t, rec)["error"], "coming soon")
}

func TestCheckout_DiscountApplied(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ta.do(t, http.MethodPost, base+"/discount", map[string]any{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, rec.Code)
	totals := decodeBody(t, rec)["totals"].(map[string]any)
	require.Equal(t, float64(1000), totals["discount"])
	require.Equal(t, float64(6500), totals["total"])

	rec = ta.do(t, http.MethodPost, base+"/discount", map[string]any{"code": "NOPE"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckout_UnknownSession(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, http.MethodGet, "/api/v1/checkout/does-not-exist/", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout_PhoneVerification(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPut, base+"/shipping", map[string]any{
		"name": "Keisha", "phone": "868-555-0123", "address": "12 Ariapita Avenue",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ta.do(t, http.MethodPost, base+"/verify-phone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ta.smsSender.lastCode, 6)

	rec = ta.do(t, http.MethodPost, base+"/confirm-phone", map[string]any{"code": "999999"})
	if ta.smsSender.lastCode == "999999" {
		t.Skip("generated code collided with the wrong-code probe")
	}
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ta.do(t, http.MethodPost, base+"/confirm-phone", map[string]any{"code": ta.smsSender.lastCode})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decodeBody(t, rec)["phone_verified"])
}

func TestSubmit_GatewayDownReturnsFallback(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPut, base+"/shipping", map[string]any{
		"name": "Keisha", "phone": "868-555-0123", "address": "12 Ariapita Avenue",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPut, base+"/payment", map[string]any{"payment_method": "cash_on_delivery"})
	require.Equal(t, http.StatusOK, rec.Code)

	ta.orderRepo.createErr = context.DeadlineExceeded

	rec = ta.do(t, http.MethodPost, base+"/submit", map[string]any{"allow_fallback": true})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	require.Contains(t, details["fallback_reference"], "ORD-LOCAL-")
	require.Equal(t, "confirming", details["session"].(map[string]any)["state"])

	// The session survives for a retry once the gateway recovers.
	ta.orderRepo.createErr = nil
	rec = ta.do(t, http.MethodPost, base+"/submit", map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)
}

// Emptying the cart at the confirmation screen is a validation failure,
// not a gateway outage: the response is 422 and no local reference is
// minted even though the client allowed one.
func TestSubmit_EmptiedCartIsNotGatewayFailure(t *testing.T) {
	ta := newTestAPI(t)
	id := ta.createSession(t)
	base := "/api/v1/checkout/" + id

	rec := ta.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPut, base+"/shipping", map[string]any{
		"name": "Keisha", "phone": "868-555-0123", "address": "12 Ariapita Avenue",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ta.do(t, http.MethodPut, base+"/payment", map[string]any{"payment_method": "cash_on_delivery"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ta.do(t, http.MethodDelete, base+"/items/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ta.do(t, http.MethodPost, base+"/submit", map[string]any{"allow_fallback": true})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	require.NotContains(t, body, "details")
	require.Empty(t, ta.orderRepo.orders)
}
