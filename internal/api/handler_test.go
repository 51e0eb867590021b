package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fastfood/internal/broker"
	"fastfood/internal/cart"
	"fastfood/internal/catalog"
	"fastfood/internal/identity"
	"fastfood/internal/orders"
	"fastfood/internal/seed"
	"fastfood/internal/service"
	"fastfood/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogStore := catalog.NewStore(seed.FoodItems())
	carts := cart.NewManager()
	orderStore := orders.NewStore(seed.Orders())

	ids, err := identity.NewService(session.NewMemoryStore(), carts)
	require.NoError(t, err)

	orderSvc := service.NewOrderService(orderStore, carts, broker.NoopPublisher{})

	router := gin.New()
	NewHandler(catalogStore, carts, orderStore, orderSvc, ids).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func login(t *testing.T, router *gin.Engine, email, password string) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGatedRoutesAnswer404ForAnonymous(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/admin/orders", "/api/v1/admin/sales"} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestGatedRoutesAnswer404ForWrongRole(t *testing.T) {
	router := newTestRouter(t)

	login(t, router, "user@example.com", "password123")
	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/orders", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	login(t, router, "admin@example.com", "admin123")
	w = doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "user@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "user", user["role"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "user@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignup(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", gin.H{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "secret",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", gin.H{
		"name":     "Impostor",
		"email":    "user@example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMenuFiltering(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["items"], 6)
	assert.Contains(t, body["categories"], "All")

	w = doJSON(t, router, http.MethodGet, "/api/v1/menu?category=Pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)

	w = doJSON(t, router, http.MethodGet, "/api/v1/menu?q=burger", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	router := newTestRouter(t)
	login(t, router, "user@example.com", "password123")

	// empty cart cannot check out
	w := doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"item_id": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["added"])

	// repeat add is a no-op
	w = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"item_id": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["added"])

	w = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/1", gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2598), body["total_cents"])
	assert.Equal(t, "25.98", body["total_formatted"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode(t, w)["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])

	// cart is cleared by checkout
	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total_cents"])

	// the new order shows up in the user dashboard (1 seeded pending,
	// 1 seeded completed, plus this one)
	w = doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 3)
}

func TestCartUnknownItem(t *testing.T) {
	router := newTestRouter(t)
	login(t, router, "user@example.com", "password123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"item_id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartRejectsUnavailableItem(t *testing.T) {
	router := newTestRouter(t)

	login(t, router, "admin@example.com", "admin123")
	w := doJSON(t, router, http.MethodPut, "/api/v1/admin/menu/1/availability", gin.H{"available": false})
	require.Equal(t, http.StatusOK, w.Code)

	login(t, router, "user@example.com", "password123")
	w = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"item_id": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// nothing reached the cart, so checkout still fails as empty
	w = doJSON(t, router, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// other items are unaffected
	w = doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"item_id": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["added"])
}

// Handlers must use the identity resolved by the gate middleware, not
// re-fetch it: a logout landing between the gate check and the handler
// body otherwise dereferences nil.
func TestCartHandlerSurvivesLogoutAfterGate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	carts := cart.NewManager()
	orderStore := orders.NewStore(nil)
	ids, err := identity.NewService(session.NewMemoryStore(), carts)
	require.NoError(t, err)
	orderSvc := service.NewOrderService(orderStore, carts, broker.NoopPublisher{})
	h := NewHandler(catalog.NewStore(seed.FoodItems()), carts, orderStore, orderSvc, ids)

	user, err := ids.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	c.Set(ctxUserKey, &user)

	// logout lands after the gate resolved the identity
	require.NoError(t, ids.Logout(context.Background()))

	h.getCart(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMenuManagement(t *testing.T) {
	router := newTestRouter(t)
	login(t, router, "admin@example.com", "admin123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/admin/menu", gin.H{"name": "Fries"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/admin/menu", gin.H{
		"name":        "Fries",
		"description": "Crispy golden fries",
		"category":    "Sides",
		"price_cents": 399,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode(t, w)["item"].(map[string]interface{})
	itemID := item["id"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/menu/"+itemID, gin.H{"price_cents": 449})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/menu/"+itemID+"/availability", gin.H{"available": false})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["item"].(map[string]interface{})
	assert.Equal(t, false, updated["available"])

	w = doJSON(t, router, http.MethodDelete, "/api/v1/admin/menu/"+itemID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/admin/menu/"+itemID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminOrderLifecycleAndSales(t *testing.T) {
	router := newTestRouter(t)
	login(t, router, "admin@example.com", "admin123")

	// seed history: pending 3297, approved 1499, completed 2198
	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sales := decode(t, w)["sales"].(map[string]interface{})
	assert.Equal(t, float64(3), sales["total_orders"])
	assert.Equal(t, float64(1), sales["completed_orders"])
	assert.Equal(t, float64(2198), sales["total_revenue_cents"])

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/orders/1/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	// the report is derived, so the transition shows up immediately
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sales = decode(t, w)["sales"].(map[string]interface{})
	assert.Equal(t, float64(2), sales["completed_orders"])
	assert.Equal(t, float64(2198+3297), sales["total_revenue_cents"])

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/orders/1/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/admin/orders/2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["orders"], 2)
}

func TestLogoutClearsCart(t *testing.T) {
	router := newTestRouter(t)
	login(t, router, "user@example.com", "password123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", gin.H{"item_id": "1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// anonymous again: the cart route is gone
	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	login(t, router, "user@example.com", "password123")
	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total_cents"])
}
