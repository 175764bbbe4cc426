package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
	"aurora-commerce/internal/logging"
	"aurora-commerce/internal/repository"
	cartrepo "aurora-commerce/internal/repository/cart"
	catalogrepo "aurora-commerce/internal/repository/catalog"
	orderrepo "aurora-commerce/internal/repository/order"
	cartsvc "aurora-commerce/internal/service/cart"
	catalogsvc "aurora-commerce/internal/service/catalog"
	checkoutsvc "aurora-commerce/internal/service/checkout"
	ordersvc "aurora-commerce/internal/service/order"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func engineDeps(store kvstore.Store) Deps {
	catalogRepo := catalogrepo.NewKV(store, nil)
	return Deps{
		Store:       store,
		CatalogSvc:  catalogsvc.New(catalogRepo, nil),
		CartSvc:     cartsvc.New(cartrepo.NewKV(store), catalogRepo, nil),
		CheckoutSvc: checkoutsvc.New(repository.NewUnitOfWork(store, nil), nil),
		OrderSvc:    ordersvc.New(orderrepo.NewKV(store, nil), nil),
	}
}

func newTestRouter(t *testing.T, deps Deps, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logging.Discard(), deps, opts)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func do(router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestStorefrontFlow(t *testing.T) {
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{})

	rec := do(router, http.MethodGet, "/products?sort=price-desc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	list := decode[struct {
		Results []domain.Product `json:"results"`
	}](t, rec)
	if len(list.Results) != 4 || list.Results[0].ID != "p3" {
		t.Fatalf("expected default catalog sorted by price desc, got %+v", list.Results)
	}

	rec = do(router, http.MethodPost, "/cart/items", `{"productId":"p1","size":"S","qty":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = do(router, http.MethodPost, "/cart/items", `{"productId":"p1","size":"S","qty":1}`)
	view := decode[domain.CartView](t, rec)
	if len(view.Lines) != 1 || view.Lines[0].Qty != 3 || view.Total != 3*199000 || view.Count != 3 {
		t.Fatalf("expected merged line qty 3, got %+v", view)
	}

	rec = do(router, http.MethodPost, "/checkout", `{"name":"Sari","phone":"0812","address":"Jl. Mawar 1","courier":"JNE"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	order := decode[domain.Order](t, rec)
	if order.Status != domain.StatusProcessing || order.Total != 3*199000 {
		t.Fatalf("unexpected order %+v", order)
	}

	rec = do(router, http.MethodGet, "/products/p1", "")
	p := decode[domain.Product](t, rec)
	if p.Stock["S"] != 2 {
		t.Fatalf("expected stock S=2 after checkout, got %+v", p.Stock)
	}

	rec = do(router, http.MethodGet, "/orders/"+order.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("track order: expected 200, got %d", rec.Code)
	}

	rec = do(router, http.MethodPost, "/checkout", `{"name":"Sari"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty cart checkout: expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCartItemEndpoints(t *testing.T) {
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{})

	do(router, http.MethodPost, "/cart/items", `{"productId":"p2","size":"M","qty":2}`)
	do(router, http.MethodPost, "/cart/items", `{"productId":"p2","size":"M","preorder":true}`)

	rec := do(router, http.MethodPatch, "/cart/items", `{"productId":"p2","size":"M","preorder":false,"delta":-2}`)
	view := decode[domain.CartView](t, rec)
	if len(view.Lines) != 1 || !view.Lines[0].Preorder {
		t.Fatalf("expected only the preorder line to remain, got %+v", view.Lines)
	}

	rec = do(router, http.MethodDelete, "/cart/items", `{"productId":"p2","size":"M","preorder":true}`)
	view = decode[domain.CartView](t, rec)
	if len(view.Lines) != 0 || view.Total != 0 {
		t.Fatalf("expected empty cart, got %+v", view)
	}

	do(router, http.MethodPost, "/cart/items", `{"productId":"p2","size":"M"}`)
	if rec := do(router, http.MethodDelete, "/cart", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear cart: expected 204, got %d", rec.Code)
	}
	view = decode[domain.CartView](t, do(router, http.MethodGet, "/cart", ""))
	if view.Count != 0 {
		t.Fatalf("expected cleared cart, got %+v", view)
	}
}

func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{})

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"unknown product", http.MethodGet, "/products/nope", "", http.StatusNotFound},
		{"bad sort", http.MethodGet, "/products?sort=name", "", http.StatusUnprocessableEntity},
		{"add unknown product", http.MethodPost, "/cart/items", `{"productId":"nope","size":"M"}`, http.StatusNotFound},
		{"malformed json", http.MethodPost, "/cart/items", `{"productId":`, http.StatusBadRequest},
		{"unknown order", http.MethodGet, "/orders/ZZZZZZZZ", "", http.StatusNotFound},
		{"bad status", http.MethodPut, "/admin/orders/X/status", `{"status":"Lost"}`, http.StatusUnprocessableEntity},
		{"negative price", http.MethodPut, "/admin/products/p9", `{"title":"Hat","price":-1}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(router, tc.method, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Fatalf("expected error body, got %s", rec.Body.String())
			}
		})
	}
}

type failingCart struct {
	CartService
}

func (failingCart) View(context.Context) (*domain.CartView, error) {
	return nil, errors.New("store offline")
}

func TestInternalErrorHidesCause(t *testing.T) {
	deps := engineDeps(kvstore.NewMemory())
	deps.CartSvc = failingCart{deps.CartSvc}
	router := newTestRouter(t, deps, Options{})

	rec := do(router, http.MethodGet, "/cart", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "offline") {
		t.Fatalf("internal cause leaked: %s", rec.Body.String())
	}
}

func TestAdminEndpoints(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{AdminKeyHash: string(hash)})

	if rec := do(router, http.MethodGet, "/admin/orders", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/admin/orders", "", adminKeyHeader, "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: expected 401, got %d", rec.Code)
	}

	do(router, http.MethodPost, "/cart/items", `{"productId":"p4","size":"L"}`)
	first := decode[domain.Order](t, do(router, http.MethodPost, "/checkout", `{"name":"A"}`))
	do(router, http.MethodPost, "/cart/items", `{"productId":"p4","size":"L"}`)
	second := decode[domain.Order](t, do(router, http.MethodPost, "/checkout", `{"name":"B"}`))

	rec := do(router, http.MethodGet, "/admin/orders", "", adminKeyHeader, "s3cret")
	if rec.Code != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d", rec.Code)
	}
	list := decode[struct {
		Results []domain.Order `json:"results"`
	}](t, rec)
	if len(list.Results) != 2 || list.Results[0].ID != second.ID || list.Results[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", list.Results)
	}

	rec = do(router, http.MethodPut, "/admin/orders/"+first.ID+"/status", `{"status":"Shipped"}`, adminKeyHeader, "s3cret")
	if got := decode[domain.Order](t, rec); got.Status != domain.StatusShipped {
		t.Fatalf("expected Shipped, got %+v", got)
	}

	rec = do(router, http.MethodPost, "/admin/products/p4/stock", `{"delta":-100}`, adminKeyHeader, "s3cret")
	p := decode[domain.Product](t, rec)
	for size, n := range p.Stock {
		if n != 0 {
			t.Fatalf("expected size %s clamped to 0, got %d", size, n)
		}
	}

	rec = do(router, http.MethodPut, "/admin/products/p9", `{"title":"Bucket Hat","price":99000,"stock":{"M":3}}`, adminKeyHeader, "s3cret")
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(router, http.MethodGet, "/products/p9", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected new product to be listed, got %d", rec.Code)
	}
}

func TestBuildRouter_RejectsBadAdminHash(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(nil, engineDeps(kvstore.NewMemory()), Options{AdminKeyHash: "plain"}); err == nil {
		t.Fatalf("expected error for non-bcrypt admin hash")
	}
}

func TestRequestIDAndHealth(t *testing.T) {
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{})

	rec := do(router, http.MethodGet, "/healthz", "", requestIDHeader, "abc-123")
	if rec.Code != http.StatusOK || rec.Header().Get(requestIDHeader) != "abc-123" {
		t.Fatalf("expected echoed request id, got %d %q", rec.Code, rec.Header().Get(requestIDHeader))
	}
	rec = do(router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK || rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected ready with minted request id, got %d", rec.Code)
	}
}

type downStore struct {
	kvstore.Store
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestReadyz_StoreUnreachable(t *testing.T) {
	deps := engineDeps(kvstore.NewMemory())
	deps.Store = downStore{deps.Store}
	router := newTestRouter(t, deps, Options{})

	if rec := do(router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{CORSAllowOrigins: []string{"http://shop.test"}})

	rec := do(router, http.MethodGet, "/products", "", "Origin", "http://shop.test")
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://shop.test" {
		t.Fatalf("expected CORS header, got %v", rec.Header())
	}
}

func TestAdminGuard_EveryRequestChecked(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	router := newTestRouter(t, engineDeps(kvstore.NewMemory()), Options{AdminKeyHash: string(hash)})

	for i, tc := range []struct {
		key  string
		want int
	}{
		{"s3cret", http.StatusOK},
		{"s3cret-", http.StatusUnauthorized},
		{"s3cret", http.StatusOK},
		{"", http.StatusUnauthorized},
	} {
		rec := do(router, http.MethodGet, "/admin/orders", "", adminKeyHeader, tc.key)
		if rec.Code != tc.want {
			t.Fatalf("request %d with key %q: expected %d, got %d", i, tc.key, tc.want, rec.Code)
		}
	}
}
