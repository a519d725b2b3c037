package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	authsvc "github.com/Stylish87l/RetailFlow/internal/auth"
	checkoutsvc "github.com/Stylish87l/RetailFlow/internal/checkout"
	handoversvc "github.com/Stylish87l/RetailFlow/internal/handovers"
	productsvc "github.com/Stylish87l/RetailFlow/internal/products"
	reportsvc "github.com/Stylish87l/RetailFlow/internal/reports"
	salereturn "github.com/Stylish87l/RetailFlow/internal/returns"
	"github.com/Stylish87l/RetailFlow/internal/store/memory"
	txnsvc "github.com/Stylish87l/RetailFlow/internal/transactions"
	usersvc "github.com/Stylish87l/RetailFlow/internal/users"
	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "retailflow-test",
			ExpirationMinutes: 60,
		},
		Tax: config.TaxConfig{RatePercent: "12.5"},
	}
}

// newTestRouter mounts the full router on a seeded in-memory store, the same
// wiring cmd/api uses in demo mode but without redis or metrics.
func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	store := memory.NewStore()
	if err := store.SeedDemo(context.Background()); err != nil {
		t.Fatalf("seed demo store: %v", err)
	}

	authService, err := authsvc.NewService(store.Tenants(), store.Users(), cfg.JWT)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	userService, err := usersvc.NewService(store.Users())
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	productService, err := productsvc.NewService(store.Products())
	if err != nil {
		t.Fatalf("product service: %v", err)
	}
	checkoutService, err := checkoutsvc.NewService(store.Sales(), cfg.Tax)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	txnService, err := txnsvc.NewService(store.Sales())
	if err != nil {
		t.Fatalf("transaction service: %v", err)
	}
	returnService, err := salereturn.NewService(store.Returns())
	if err != nil {
		t.Fatalf("return service: %v", err)
	}
	handoverService, err := handoversvc.NewService(store.Handovers())
	if err != nil {
		t.Fatalf("handover service: %v", err)
	}
	reportService, err := reportsvc.NewService(store.Reports())
	if err != nil {
		t.Fatalf("report service: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, nil, nil, nil, nil, Services{
		Auth:         authService,
		Users:        userService,
		Products:     productService,
		Checkout:     checkoutService,
		Transactions: txnService,
		Returns:      returnService,
		Handovers:    handoverService,
		Reports:      reportService,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, resp.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v (body %s)", err, resp.Body.String())
	}
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, resp.Body.String())
	}
	return envelope.Error.Code, envelope.Error.Message
}

func login(t *testing.T, router http.Handler, shop, username, password string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"shop_id":  shop,
		"username": username,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login %s/%s: expected 200 got %d (body %s)", shop, username, resp.Code, resp.Body.String())
	}
	var result struct {
		Token string `json:"token"`
	}
	decodeData(t, resp, &result)
	if result.Token == "" {
		t.Fatal("login returned empty token")
	}
	return result.Token
}

func listCatalog(t *testing.T, router http.Handler, token string) []models.Product {
	t.Helper()
	resp := doJSON(t, router, http.MethodGet, "/api/products", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list products: expected 200 got %d (body %s)", resp.Code, resp.Body.String())
	}
	var products []models.Product
	decodeData(t, resp, &products)
	return products
}

func catalogProduct(t *testing.T, products []models.Product, sku string) models.Product {
	t.Helper()
	for _, p := range products {
		if p.SKU == sku {
			return p
		}
	}
	t.Fatalf("product %s not in catalog", sku)
	return models.Product{}
}

// demoCart builds the standard cart used across flow tests: two colas and one
// bread at seeded prices, discount 0.50. Subtotal 6.50, tax 0.81, total 6.81.
func demoCart(cola, bread models.Product) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"product_id": cola.ID.String(), "quantity": 2, "unit_price": "2.50"},
			{"product_id": bread.ID.String(), "quantity": 1, "unit_price": "1.50"},
		},
		"discount":       "0.50",
		"payment_method": "cash",
	}
}

func TestHealthProbesArePublic(t *testing.T) {
	router := newTestRouter(t, testConfig())

	live := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	if live.Code != http.StatusOK {
		t.Fatalf("expected 200 for live probe got %d", live.Code)
	}
	if env := live.Header().Get("X-RetailFlow-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}

	ready := doJSON(t, router, http.MethodGet, "/health/ready", "", nil)
	if ready.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready probe got %d", ready.Code)
	}
}

func TestLoginReturnsSession(t *testing.T) {
	router := newTestRouter(t, testConfig())

	// Shop and username resolve case-insensitively.
	resp := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"shop_id":  "Demo",
		"username": "ADMIN",
		"password": "admin123",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (body %s)", resp.Code, resp.Body.String())
	}

	var result struct {
		Token  string         `json:"token"`
		User   *models.User   `json:"user"`
		Tenant *models.Tenant `json:"tenant"`
	}
	decodeData(t, resp, &result)
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.User == nil || result.User.Username != "admin" {
		t.Fatalf("unexpected user in login response: %+v", result.User)
	}
	if result.Tenant == nil || result.Tenant.Subdomain != "demo" {
		t.Fatalf("unexpected tenant in login response: %+v", result.Tenant)
	}

	me := doJSON(t, router, http.MethodGet, "/api/auth/me", result.Token, nil)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200 for me got %d (body %s)", me.Code, me.Body.String())
	}
	var session struct {
		User *models.User `json:"user"`
	}
	decodeData(t, me, &session)
	if session.User == nil || session.User.Username != "admin" {
		t.Fatalf("unexpected session user: %+v", session.User)
	}
}

func TestLoginFailureIsOpaque(t *testing.T) {
	router := newTestRouter(t, testConfig())

	cases := []map[string]string{
		{"shop_id": "demo", "username": "admin", "password": "wrong-password"},
		{"shop_id": "demo", "username": "nobody", "password": "admin123"},
		{"shop_id": "no-such-shop", "username": "admin", "password": "admin123"},
	}
	for _, payload := range cases {
		resp := doJSON(t, router, http.MethodPost, "/api/auth/login", "", payload)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v got %d", payload, resp.Code)
		}
		code, message := decodeError(t, resp)
		if code != "VALIDATION_ERROR" || message != "invalid credentials" {
			t.Fatalf("expected opaque credentials error for %v got %s/%s", payload, code, message)
		}
	}
}

func TestPrivateRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig())

	paths := []string{"/api/products", "/api/transactions", "/api/dashboard/kpis", "/api/auth/me"}
	for _, path := range paths {
		resp := doJSON(t, router, http.MethodGet, path, "", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token got %d", path, resp.Code)
		}
	}
}

func TestCheckoutFlow(t *testing.T) {
	router := newTestRouter(t, testConfig())
	token := login(t, router, "demo", "admin", "admin123")

	catalog := listCatalog(t, router, token)
	if len(catalog) != 2 {
		t.Fatalf("expected 2 seeded products got %d", len(catalog))
	}
	cola := catalogProduct(t, catalog, "CC-500")
	bread := catalogProduct(t, catalog, "BR-001")

	resp := doJSON(t, router, http.MethodPost, "/api/transactions", token, demoCart(cola, bread))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for checkout got %d (body %s)", resp.Code, resp.Body.String())
	}

	var txn models.Transaction
	decodeData(t, resp, &txn)
	if !txn.Subtotal.Equal(decimal.RequireFromString("6.50")) {
		t.Fatalf("expected subtotal 6.50 got %s", txn.Subtotal)
	}
	if !txn.Tax.Equal(decimal.RequireFromString("0.81")) {
		t.Fatalf("expected tax 0.81 got %s", txn.Tax)
	}
	if !txn.Total.Equal(decimal.RequireFromString("6.81")) {
		t.Fatalf("expected total 6.81 got %s", txn.Total)
	}
	if txn.ReceiptNumber == "" || txn.ReceiptNumber[:4] != "RCP-" {
		t.Fatalf("expected RCP- receipt number got %q", txn.ReceiptNumber)
	}
	if len(txn.Items) != 2 {
		t.Fatalf("expected 2 line items got %d", len(txn.Items))
	}

	// Stock is decremented atomically with the sale.
	after := listCatalog(t, router, token)
	if got := catalogProduct(t, after, "CC-500").Stock; got != cola.Stock-2 {
		t.Fatalf("expected cola stock %d got %d", cola.Stock-2, got)
	}
	if got := catalogProduct(t, after, "BR-001").Stock; got != bread.Stock-1 {
		t.Fatalf("expected bread stock %d got %d", bread.Stock-1, got)
	}

	detail := doJSON(t, router, http.MethodGet, "/api/transactions/"+txn.ID.String(), token, nil)
	if detail.Code != http.StatusOK {
		t.Fatalf("expected 200 for transaction detail got %d", detail.Code)
	}

	list := doJSON(t, router, http.MethodGet, "/api/transactions", token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200 for transaction list got %d", list.Code)
	}
	var rows []models.Transaction
	decodeData(t, list, &rows)
	if len(rows) != 1 || rows[0].ID != txn.ID {
		t.Fatalf("expected the checkout in the recent list, got %d rows", len(rows))
	}
}

func TestCheckoutRejectsOversell(t *testing.T) {
	router := newTestRouter(t, testConfig())
	token := login(t, router, "demo", "admin", "admin123")
	cola := catalogProduct(t, listCatalog(t, router, token), "CC-500")

	resp := doJSON(t, router, http.MethodPost, "/api/transactions", token, map[string]any{
		"items": []map[string]any{
			{"product_id": cola.ID.String(), "quantity": cola.Stock + 1, "unit_price": "2.50"},
		},
		"payment_method": "cash",
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for oversell got %d (body %s)", resp.Code, resp.Body.String())
	}
	code, _ := decodeError(t, resp)
	if code != "STATE_CONFLICT" {
		t.Fatalf("expected STATE_CONFLICT got %s", code)
	}

	// Nothing was decremented.
	after := catalogProduct(t, listCatalog(t, router, token), "CC-500")
	if after.Stock != cola.Stock {
		t.Fatalf("expected stock %d after failed checkout got %d", cola.Stock, after.Stock)
	}
}

func TestReturnRestocksInventory(t *testing.T) {
	router := newTestRouter(t, testConfig())
	token := login(t, router, "demo", "admin", "admin123")

	catalog := listCatalog(t, router, token)
	cola := catalogProduct(t, catalog, "CC-500")
	bread := catalogProduct(t, catalog, "BR-001")

	sale := doJSON(t, router, http.MethodPost, "/api/transactions", token, demoCart(cola, bread))
	if sale.Code != http.StatusCreated {
		t.Fatalf("checkout failed: %d (body %s)", sale.Code, sale.Body.String())
	}
	var txn models.Transaction
	decodeData(t, sale, &txn)

	resp := doJSON(t, router, http.MethodPost, "/api/returns", token, map[string]any{
		"transaction_id": txn.ID.String(),
		"reason":         "damaged bottle",
		"refund_amount":  "2.50",
		"items": []map[string]any{
			{"product_id": cola.ID.String(), "quantity": 1},
		},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for return got %d (body %s)", resp.Code, resp.Body.String())
	}
	var ret models.SaleReturn
	decodeData(t, resp, &ret)
	if ret.TransactionID != txn.ID {
		t.Fatalf("return not linked to sale: %s", ret.TransactionID)
	}

	// One cola went back on the shelf: seeded stock minus the two sold plus one.
	after := catalogProduct(t, listCatalog(t, router, token), "CC-500")
	if after.Stock != cola.Stock-1 {
		t.Fatalf("expected cola stock %d after return got %d", cola.Stock-1, after.Stock)
	}

	list := doJSON(t, router, http.MethodGet, "/api/returns", token, nil)
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200 for return list got %d", list.Code)
	}
	var rows []models.SaleReturn
	decodeData(t, list, &rows)
	if len(rows) != 1 {
		t.Fatalf("expected 1 return got %d", len(rows))
	}
}

func TestRoleEnforcement(t *testing.T) {
	router := newTestRouter(t, testConfig())
	adminToken := login(t, router, "demo", "admin", "admin123")

	created := doJSON(t, router, http.MethodPost, "/api/users", adminToken, map[string]any{
		"username": "floor1",
		"password": "secret123",
		"role":     "sales_attendant",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating attendant got %d (body %s)", created.Code, created.Body.String())
	}

	attendantToken := login(t, router, "demo", "floor1", "secret123")

	// Attendants can browse the catalog but not sell or manage it.
	browse := doJSON(t, router, http.MethodGet, "/api/products", attendantToken, nil)
	if browse.Code != http.StatusOK {
		t.Fatalf("expected 200 for attendant browse got %d", browse.Code)
	}

	cola := catalogProduct(t, listCatalog(t, router, adminToken), "CC-500")
	sell := doJSON(t, router, http.MethodPost, "/api/transactions", attendantToken, map[string]any{
		"items": []map[string]any{
			{"product_id": cola.ID.String(), "quantity": 1, "unit_price": "2.50"},
		},
		"payment_method": "cash",
	})
	if sell.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for attendant checkout got %d", sell.Code)
	}

	manage := doJSON(t, router, http.MethodPost, "/api/products", attendantToken, map[string]any{
		"name": "Chocolate", "sku": "CH-001", "category": "snacks", "price": "3.00",
	})
	if manage.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for attendant product create got %d", manage.Code)
	}

	staff := doJSON(t, router, http.MethodGet, "/api/users", attendantToken, nil)
	if staff.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for attendant user list got %d", staff.Code)
	}
}

func TestDashboardReflectsSales(t *testing.T) {
	router := newTestRouter(t, testConfig())
	token := login(t, router, "demo", "admin", "admin123")

	catalog := listCatalog(t, router, token)
	cola := catalogProduct(t, catalog, "CC-500")
	bread := catalogProduct(t, catalog, "BR-001")

	sale := doJSON(t, router, http.MethodPost, "/api/transactions", token, demoCart(cola, bread))
	if sale.Code != http.StatusCreated {
		t.Fatalf("checkout failed: %d (body %s)", sale.Code, sale.Body.String())
	}

	resp := doJSON(t, router, http.MethodGet, "/api/dashboard/kpis", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for kpis got %d (body %s)", resp.Code, resp.Body.String())
	}
	var kpis reportsvc.KPIs
	decodeData(t, resp, &kpis)
	if !kpis.TodaySales.Equal(decimal.RequireFromString("6.81")) {
		t.Fatalf("expected today_sales 6.81 got %s", kpis.TodaySales)
	}
	if kpis.TodayTransactions != 1 {
		t.Fatalf("expected 1 transaction today got %d", kpis.TodayTransactions)
	}
	if kpis.ActiveStaff != 1 {
		t.Fatalf("expected 1 active staff got %d", kpis.ActiveStaff)
	}

	today := time.Now().Format("2006-01-02")
	report := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/reports/sales?start_date=%s&end_date=%s", today, today), token, nil)
	if report.Code != http.StatusOK {
		t.Fatalf("expected 200 for sales report got %d (body %s)", report.Code, report.Body.String())
	}
	var days []reportsvc.DailySales
	decodeData(t, report, &days)
	if len(days) != 1 || days[0].Count != 1 {
		t.Fatalf("expected one report row with one sale, got %+v", days)
	}
}
