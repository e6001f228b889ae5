package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khasm-app/khasm/internal/audit"
	"github.com/khasm-app/khasm/internal/auth"
	"github.com/khasm-app/khasm/internal/auth/session"
	"github.com/khasm-app/khasm/internal/authorization"
	"github.com/khasm-app/khasm/internal/cache"
	"github.com/khasm-app/khasm/internal/category"
	"github.com/khasm-app/khasm/internal/clock"
	"github.com/khasm-app/khasm/internal/config"
	"github.com/khasm-app/khasm/internal/favorite"
	"github.com/khasm-app/khasm/internal/ledger"
	"github.com/khasm-app/khasm/internal/migration"
	"github.com/khasm-app/khasm/internal/observability"
	"github.com/khasm-app/khasm/internal/place"
	"github.com/khasm-app/khasm/internal/ratelimit"
	"github.com/khasm-app/khasm/internal/seed"
	"github.com/khasm-app/khasm/internal/server"
	"github.com/khasm-app/khasm/internal/store"
	"github.com/khasm-app/khasm/internal/subscription"
	"github.com/khasm-app/khasm/internal/user"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
	"github.com/khasm-app/khasm/pkg/db"
)

type testEnv struct {
	app     *fx.App
	server  *server.Server
	db      *gorm.DB
	cfg     config.Config
	log     *zap.Logger
	userSvc userdomain.Service
	baseURL string
	httpSrv *httptest.Server
}

var env *testEnv

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setDefaultEnv()

	var err error
	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}

	code := m.Run()
	env.shutdown()
	os.Exit(code)
}

func TestE2E_HealthCheck(t *testing.T) {
	resetDatabase(t, env.db)

	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_AdminLoginAndSession(t *testing.T) {
	resetDatabase(t, env.db)

	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "admin@khasm.local",
		"password":   "wrong",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d: %s", resp.StatusCode, string(body))
	}

	client = loginAdmin(t)

	resp, body = doJSON(t, client, http.MethodGet, env.baseURL+"/auth/me", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me failed: %d: %s", resp.StatusCode, string(body))
	}
	var me struct {
		Data struct {
			UserID string `json:"user_id"`
			Name   string `json:"name"`
			Role   string `json:"role"`
		} `json:"data"`
	}
	mustDecode(t, body, &me)
	if me.Data.Role != "admin" {
		t.Fatalf("expected admin role, got %q", me.Data.Role)
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/auth/logout", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = doJSON(t, client, http.MethodGet, env.baseURL+"/auth/me", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestE2E_CatalogCRUD(t *testing.T) {
	resetDatabase(t, env.db)

	client := loginAdmin(t)

	placeID := createPlace(t, client, "Downtown Mall")
	categoryID := createCategory(t, client, "Coffee", "C")
	storeID := createStore(t, client, "Roastery", placeID, categoryID, 15)

	resp, body := doJSON(t, client, http.MethodGet, env.baseURL+"/admin/stores/"+storeID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get store failed: %d: %s", resp.StatusCode, string(body))
	}
	var got struct {
		Data struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Discount float64 `json:"discount"`
		} `json:"data"`
	}
	mustDecode(t, body, &got)
	if got.Data.Name != "Roastery" || got.Data.Discount != 15 {
		t.Fatalf("unexpected store: %+v", got.Data)
	}

	resp, body = doJSON(t, client, http.MethodPatch, env.baseURL+"/admin/stores/"+storeID, map[string]any{
		"discount": 20,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update store failed: %d: %s", resp.StatusCode, string(body))
	}
	mustDecode(t, body, &got)
	if got.Data.Discount != 20 {
		t.Fatalf("expected discount 20 after update, got %v", got.Data.Discount)
	}

	resp, body = doJSON(t, client, http.MethodPost, env.baseURL+"/admin/places", map[string]any{
		"name": "Downtown Mall",
	}, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate place name, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, client, http.MethodDelete, env.baseURL+"/admin/stores/"+storeID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete store failed: %d: %s", resp.StatusCode, string(body))
	}
	resp, _ = doJSON(t, client, http.MethodGet, env.baseURL+"/admin/stores/"+storeID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestE2E_CustomerLifecycle(t *testing.T) {
	resetDatabase(t, env.db)

	admin := loginAdmin(t)
	customerID := createCustomer(t, admin, "Jamal", "0791234567", "9901010001")

	// Initial password is the national id number.
	customer := newHTTPClient()
	resp, body := doJSON(t, customer, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "0791234567",
		"password":   "9901010001",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("customer login failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = doJSON(t, customer, http.MethodGet, env.baseURL+"/admin/places", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on admin route, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, customer, http.MethodPost, env.baseURL+"/auth/change-password", map[string]any{
		"current_password": "9901010001",
		"new_password":     "s3cret-pass",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change password failed: %d: %s", resp.StatusCode, string(body))
	}

	relogin := newHTTPClient()
	resp, body = doJSON(t, relogin, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "0791234567",
		"password":   "s3cret-pass",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("relogin with new password failed: %d: %s", resp.StatusCode, string(body))
	}

	// Deactivated accounts cannot log in.
	resp, body = doJSON(t, admin, http.MethodPatch, env.baseURL+"/admin/customers/"+customerID, map[string]any{
		"is_active": false,
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("deactivate customer failed: %d: %s", resp.StatusCode, string(body))
	}
	resp, _ = doJSON(t, newHTTPClient(), http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "0791234567",
		"password":   "s3cret-pass",
	}, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for disabled account, got %d", resp.StatusCode)
	}
}

func TestE2E_RedeemFlow(t *testing.T) {
	resetDatabase(t, env.db)

	admin := loginAdmin(t)
	placeID := createPlace(t, admin, "Old Town")
	categoryID := createCategory(t, admin, "Restaurants", "R")
	storeID := createStore(t, admin, "Shawarma House", placeID, categoryID, 10)
	customerID := createCustomer(t, admin, "Lina", "0787654321", "")
	subscriptionID := createSubscription(t, admin, customerID)

	customer := newHTTPClient()
	resp, body := doJSON(t, customer, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "0787654321",
		"password":   "0787654321",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("customer login failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, customer, http.MethodGet, env.baseURL+"/api/card/"+customerID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("card failed: %d: %s", resp.StatusCode, string(body))
	}
	var card struct {
		Data struct {
			Expired      bool `json:"expired"`
			Subscription *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"subscription"`
		} `json:"data"`
	}
	mustDecode(t, body, &card)
	if card.Data.Expired {
		t.Fatalf("expected active card")
	}
	if card.Data.Subscription == nil || card.Data.Subscription.ID != subscriptionID {
		t.Fatalf("expected subscription %s on card, got %+v", subscriptionID, card.Data.Subscription)
	}

	// Customers may not read another user's card.
	resp, _ = doJSON(t, customer, http.MethodGet, env.baseURL+"/api/card/1234567890", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign card, got %d", resp.StatusCode)
	}

	allowanceURL := env.baseURL + "/api/card/allowance?" + url.Values{
		"store_id":        {storeID},
		"subscription_id": {subscriptionID},
	}.Encode()

	resp, body = doJSON(t, customer, http.MethodGet, allowanceURL, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("allowance failed: %d: %s", resp.StatusCode, string(body))
	}
	var allowance struct {
		Data struct {
			Allowed         bool       `json:"allowed"`
			NextAvailableAt *time.Time `json:"next_available_at"`
		} `json:"data"`
	}
	mustDecode(t, body, &allowance)
	if !allowance.Data.Allowed {
		t.Fatalf("expected first redemption to be allowed")
	}

	redeemReq := map[string]any{
		"store_id":        storeID,
		"subscription_id": subscriptionID,
	}

	resp, body = doJSON(t, customer, http.MethodPost, env.baseURL+"/api/card/redeem", redeemReq, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("redeem failed: %d: %s", resp.StatusCode, string(body))
	}
	var redeem struct {
		Data struct {
			Success     bool `json:"success"`
			AlreadyUsed bool `json:"already_used"`
			Record      *struct {
				ID string `json:"id"`
			} `json:"record"`
		} `json:"data"`
	}
	mustDecode(t, body, &redeem)
	if !redeem.Data.Success || redeem.Data.AlreadyUsed || redeem.Data.Record == nil {
		t.Fatalf("unexpected first redeem result: %+v", redeem.Data)
	}

	// A same-day repeat is a 200 with success=false, not an error.
	resp, body = doJSON(t, customer, http.MethodPost, env.baseURL+"/api/card/redeem", redeemReq, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat redeem failed: %d: %s", resp.StatusCode, string(body))
	}
	mustDecode(t, body, &redeem)
	if redeem.Data.Success || !redeem.Data.AlreadyUsed {
		t.Fatalf("unexpected repeat redeem result: %+v", redeem.Data)
	}

	resp, body = doJSON(t, customer, http.MethodGet, allowanceURL, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("allowance after redeem failed: %d: %s", resp.StatusCode, string(body))
	}
	mustDecode(t, body, &allowance)
	if allowance.Data.Allowed {
		t.Fatalf("expected allowance to be spent")
	}
	if allowance.Data.NextAvailableAt == nil {
		t.Fatalf("expected next_available_at on spent allowance")
	}

	resp, body = doJSON(t, customer, http.MethodGet, env.baseURL+"/api/card/usage", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("usage history failed: %d: %s", resp.StatusCode, string(body))
	}
	var usage struct {
		Data []struct {
			StoreID string `json:"store_id"`
		} `json:"data"`
	}
	mustDecode(t, body, &usage)
	if len(usage.Data) != 1 || usage.Data[0].StoreID != storeID {
		t.Fatalf("unexpected usage history: %+v", usage.Data)
	}

	resp, body = doJSON(t, admin, http.MethodGet, env.baseURL+"/admin/customers/"+customerID+"/usage", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin usage view failed: %d: %s", resp.StatusCode, string(body))
	}
	mustDecode(t, body, &usage)
	if len(usage.Data) != 1 {
		t.Fatalf("expected one usage record in admin view, got %d", len(usage.Data))
	}
}

func TestE2E_StoresGroupedAndFavorites(t *testing.T) {
	resetDatabase(t, env.db)

	admin := loginAdmin(t)
	placeID := createPlace(t, admin, "Airport Road")
	categoryID := createCategory(t, admin, "Pharmacies", "P")
	storeID := createStore(t, admin, "CarePlus", placeID, categoryID, 5)
	createCustomer(t, admin, "Noor", "0770001111", "")

	customer := newHTTPClient()
	resp, body := doJSON(t, customer, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "0770001111",
		"password":   "0770001111",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("customer login failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, customer, http.MethodGet, env.baseURL+"/api/card/stores", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("grouped stores failed: %d: %s", resp.StatusCode, string(body))
	}
	var grouped struct {
		Data []struct {
			Place struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"place"`
			Stores []struct {
				ID string `json:"id"`
			} `json:"stores"`
		} `json:"data"`
	}
	mustDecode(t, body, &grouped)
	if len(grouped.Data) != 1 || grouped.Data[0].Place.ID != placeID {
		t.Fatalf("unexpected grouped stores: %+v", grouped.Data)
	}
	if len(grouped.Data[0].Stores) != 1 || grouped.Data[0].Stores[0].ID != storeID {
		t.Fatalf("expected the store under its place: %+v", grouped.Data[0])
	}

	toggle := map[string]any{"store_id": storeID}

	resp, body = doJSON(t, customer, http.MethodPost, env.baseURL+"/api/card/favorites/toggle", toggle, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("favorite toggle failed: %d: %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, customer, http.MethodGet, env.baseURL+"/api/card/favorites", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list favorites failed: %d: %s", resp.StatusCode, string(body))
	}
	var favorites struct {
		Data []struct {
			StoreID string `json:"store_id"`
		} `json:"data"`
	}
	mustDecode(t, body, &favorites)
	if len(favorites.Data) != 1 {
		t.Fatalf("expected one favorite, got %d", len(favorites.Data))
	}

	resp, body = doJSON(t, customer, http.MethodPost, env.baseURL+"/api/card/favorites/toggle", toggle, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("favorite untoggle failed: %d: %s", resp.StatusCode, string(body))
	}
	resp, body = doJSON(t, customer, http.MethodGet, env.baseURL+"/api/card/favorites", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list favorites failed: %d: %s", resp.StatusCode, string(body))
	}
	mustDecode(t, body, &favorites)
	if len(favorites.Data) != 0 {
		t.Fatalf("expected no favorites after untoggle, got %d", len(favorites.Data))
	}
}

func TestE2E_AuditTrail(t *testing.T) {
	resetDatabase(t, env.db)

	admin := loginAdmin(t)
	createCustomer(t, admin, "Omar", "0795556677", "")

	resp, body := doJSON(t, admin, http.MethodGet, env.baseURL+"/admin/audit-logs?action=customer.create", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit list failed: %d: %s", resp.StatusCode, string(body))
	}
	var audits struct {
		Data struct {
			AuditLogs []struct {
				Action    string         `json:"action"`
				ActorType string         `json:"actor_type"`
				Metadata  map[string]any `json:"metadata"`
			} `json:"audit_logs"`
		} `json:"data"`
	}
	mustDecode(t, body, &audits)
	if len(audits.Data.AuditLogs) != 1 {
		t.Fatalf("expected one customer.create audit entry, got %d", len(audits.Data.AuditLogs))
	}
	entry := audits.Data.AuditLogs[0]
	if entry.ActorType != "admin" {
		t.Fatalf("expected admin actor, got %q", entry.ActorType)
	}
	mobile, _ := entry.Metadata["mobile_number"].(string)
	if !strings.HasPrefix(mobile, "****") || !strings.HasSuffix(mobile, "6677") {
		t.Fatalf("expected masked mobile number in audit metadata, got %q", mobile)
	}
}

func startEnv() (*testEnv, error) {
	var (
		srv     *server.Server
		dbConn  *gorm.DB
		cfg     config.Config
		log     *zap.Logger
		userSvc userdomain.Service
	)

	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		authorization.Module,
		audit.Module,
		auth.Module,
		session.Module,
		user.Module,
		place.Module,
		category.Module,
		store.Module,
		subscription.Module,
		favorite.Module,
		ledger.Module,
		ratelimit.Module,
		cache.Module,
		migration.Module,
		seed.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Populate(&srv, &dbConn, &cfg, &log, &userSvc),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(srv.Engine())

	return &testEnv{
		app:     app,
		server:  srv,
		db:      dbConn,
		cfg:     cfg,
		log:     log,
		userSvc: userSvc,
		baseURL: httpSrv.URL,
		httpSrv: httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
}

func setDefaultEnv() {
	setEnvIfEmpty("ENVIRONMENT", "test")
	setEnvIfEmpty("AUTH_COOKIE_SECURE", "false")
	setEnvIfEmpty("DATABASE_TYPE", "sqlite")
	setEnvIfEmpty("DATABASE_NAME", filepath.Join(os.TempDir(), fmt.Sprintf("khasm_e2e_%d", time.Now().UnixNano())))
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

// resetDatabase clears the application tables and restores the bootstrap
// admin. Casbin policies are seeded once at startup and survive the reset.
func resetDatabase(t *testing.T, dbConn *gorm.DB) {
	t.Helper()

	tables := []string{
		"usage_records",
		"favorites",
		"subscriptions",
		"stores",
		"categories",
		"places",
		"sessions",
		"audit_logs",
		"users",
	}
	for _, table := range tables {
		if err := dbConn.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clear table %s: %v", table, err)
		}
	}

	if err := seed.EnsureBootstrapAdmin(env.cfg, env.log, env.userSvc); err != nil {
		t.Fatalf("seed bootstrap admin: %v", err)
	}
}

func loginAdmin(t *testing.T) *http.Client {
	t.Helper()
	client := newHTTPClient()

	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/auth/login", map[string]any{
		"identifier": "admin@khasm.local",
		"password":   "admin",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login failed: %d: %s", resp.StatusCode, string(body))
	}

	baseURL, err := url.Parse(env.baseURL)
	if err == nil {
		found := false
		for _, cookie := range client.Jar.Cookies(baseURL) {
			if cookie.Name == "_sid" && strings.TrimSpace(cookie.Value) != "" {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected session cookie after login")
		}
	}

	return client
}

func createPlace(t *testing.T, client *http.Client, name string) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/admin/places", map[string]any{
		"name": name,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create place failed: %d: %s", resp.StatusCode, string(body))
	}
	return decodeID(t, body)
}

func createCategory(t *testing.T, client *http.Client, name, letter string) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/admin/categories", map[string]any{
		"name":   name,
		"letter": letter,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create category failed: %d: %s", resp.StatusCode, string(body))
	}
	return decodeID(t, body)
}

func createStore(t *testing.T, client *http.Client, name, placeID, categoryID string, discount float64) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/admin/stores", map[string]any{
		"name":        name,
		"place_id":    placeID,
		"category_id": categoryID,
		"discount":    discount,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create store failed: %d: %s", resp.StatusCode, string(body))
	}
	return decodeID(t, body)
}

func createCustomer(t *testing.T, client *http.Client, name, mobile, idNumber string) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/admin/customers", map[string]any{
		"name":          name,
		"mobile_number": mobile,
		"id_number":     idNumber,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer failed: %d: %s", resp.StatusCode, string(body))
	}
	return decodeID(t, body)
}

func createSubscription(t *testing.T, client *http.Client, userID string) string {
	t.Helper()
	resp, body := doJSON(t, client, http.MethodPost, env.baseURL+"/admin/subscriptions", map[string]any{
		"user_id": userID,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create subscription failed: %d: %s", resp.StatusCode, string(body))
	}
	return decodeID(t, body)
}

func decodeID(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	mustDecode(t, body, &payload)
	if strings.TrimSpace(payload.Data.ID) == "" {
		t.Fatalf("missing id in response: %s", string(body))
	}
	return payload.Data.ID
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode response: %v: %s", err, string(body))
	}
}

func doJSON(t *testing.T, client *http.Client, method, reqURL string, payload any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func newHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: 15 * time.Second,
		Jar:     jar,
	}
}
