package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/catalog"
	"github.com/harvestlink/marketplace/internal/config"
	"github.com/harvestlink/marketplace/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHandler wires the full HTTP application over in-memory stores
// with a seeded demo catalog.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	stores := Stores{
		Catalog: catalog.NewMemoryStore(),
		Order:   order.NewMemoryStore(),
		Cart:    cart.NewMemoryStore(),
	}
	require.NoError(t, catalog.SeedDemo(context.Background(), stores.Catalog))

	cfg := &config.Config{}
	cfg.Cart.Step = 1
	deps := SetupDependencies(stores, nil, cfg, logger)
	return SetupHttpHandler(deps)
}

// seededProductID returns the id of any in-stock product from the demo catalog.
func seededProductID(t *testing.T, handler http.Handler) uuid.UUID {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=10&offset=0&in_stock=true", nil)
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var products []struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	require.NotEmpty(t, products)
	return products[0].ID
}

// Every identity-bound route group resolves the buyer from the X-User-Id
// header. Requests carrying the header must reach the handlers; requests
// without it must be rejected before any handler runs.
func Test_Router_IdentityHeader(t *testing.T) {
	handler := newTestHandler(t)
	userID := uuid.New()

	routes := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "cart", method: http.MethodGet, target: "/api/v1/cart"},
		{name: "orders", method: http.MethodGet, target: "/api/v1/orders?limit=10&offset=0"},
		{name: "checkout", method: http.MethodPost, target: "/api/v1/checkout", body: `{"delivery_method": "pickup", "payment_method": "upi"}`},
		{name: "analytics buyer", method: http.MethodGet, target: "/api/v1/analytics/buyer"},
		{name: "analytics farmer", method: http.MethodGet, target: "/api/v1/analytics/farmer/John%20Farmer"},
	}

	for _, rt := range routes {
		t.Run(rt.name+" - with header", func(t *testing.T) {
			// given
			var body io.Reader
			if rt.body != "" {
				body = strings.NewReader(rt.body)
			}
			req := httptest.NewRequest(rt.method, rt.target, body)
			req.Header.Set("X-User-Id", userID.String())
			rr := httptest.NewRecorder()

			// when
			handler.ServeHTTP(rr, req)

			// then
			assert.NotEqual(t, http.StatusUnauthorized, rr.Code, "authorized request must pass the identity middleware")
		})

		t.Run(rt.name+" - without header", func(t *testing.T) {
			// given
			var body io.Reader
			if rt.body != "" {
				body = strings.NewReader(rt.body)
			}
			req := httptest.NewRequest(rt.method, rt.target, body)
			rr := httptest.NewRecorder()

			// when
			handler.ServeHTTP(rr, req)

			// then
			assert.Equal(t, http.StatusUnauthorized, rr.Code, "request without identity must be rejected")
		})
	}

	t.Run("catalog stays public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=10&offset=0", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

// Buyer journey across the wired application: browse, fill the cart,
// check out, then read the order back.
func Test_Router_CheckoutJourney(t *testing.T) {
	handler := newTestHandler(t)
	userID := uuid.New()
	productID := seededProductID(t, handler)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		t.Helper()
		var rdr io.Reader
		if body != "" {
			rdr = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, rdr)
		req.Header.Set("X-User-Id", userID.String())
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	// given: two units of a seeded product in the cart
	rr := do(http.MethodPost, "/api/v1/cart/items", fmt.Sprintf(`{"product_id": %q, "quantity": 2}`, productID))
	require.Equal(t, http.StatusOK, rr.Code)

	// when: checking out with pickup
	rr = do(http.MethodPost, "/api/v1/checkout", `{"delivery_method": "pickup", "payment_method": "upi"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var placed order.OrderDto
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &placed))
	assert.Equal(t, userID, placed.UserID)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, placed.Subtotal, placed.Total, "pickup carries no delivery charge")

	// then: the order is listed for the buyer
	rr = do(http.MethodGet, "/api/v1/orders?limit=10&offset=0", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var orders []order.OrderDto
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)

	// the session cart is closed by the checkout
	rr = do(http.MethodPost, "/api/v1/cart/items", fmt.Sprintf(`{"product_id": %q, "quantity": 1}`, productID))
	assert.Equal(t, http.StatusConflict, rr.Code)

	// and the spend shows up on the buyer dashboard
	rr = do(http.MethodGet, "/api/v1/analytics/buyer", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var report struct {
		TotalSpent int64 `json:"total_spent"`
		OrderCount int   `json:"order_count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, placed.Total, report.TotalSpent)
	assert.Equal(t, 1, report.OrderCount)
}
