package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/checkout"
	"github.com/harvestlink/marketplace/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCheckoutService is a mock implementation of the CheckoutService interface
type mockCheckoutService struct {
	order *order.OrderDto
	error error

	gotUserID uuid.UUID
	gotReq    checkout.CheckoutRequestDto
}

func (m *mockCheckoutService) Checkout(_ context.Context, userID uuid.UUID, req checkout.CheckoutRequestDto) (*order.OrderDto, error) {
	m.gotUserID = userID
	m.gotReq = req
	if m.error != nil {
		return nil, m.error
	}
	return m.order, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

// newRouter registers the checkout routes, middleware included, on a fresh mux.
func newRouter(service checkout.CheckoutService) *chi.Mux {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(service, logger).RegisterRoutes(mux)
	return mux
}

func Test_CheckoutAPI_Checkout(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")
	dto := &order.OrderDto{
		ID:             uuid.New(),
		UserID:         mockUserID,
		Status:         order.StatusPending,
		PaymentMethod:  "upi",
		DeliveryMethod: "pickup",
		Subtotal:       12000,
		Total:          12000,
		Version:        1,
		CreatedAt:      time.Now().Format(time.RFC3339),
	}

	testCases := []struct {
		name         string
		mockService  mockCheckoutService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - order placed",
			mockService:  mockCheckoutService{order: dto},
			body:         `{"delivery_method": "pickup", "payment_method": "upi"}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, dto),
		},
		{
			name:         "Error - malformed body",
			mockService:  mockCheckoutService{order: dto},
			body:         `{"delivery_method": `,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name:         "Error - missing payment method",
			mockService:  mockCheckoutService{order: dto},
			body:         `{"delivery_method": "pickup"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - unknown delivery method",
			mockService:  mockCheckoutService{error: checkout.ErrInvalidDeliveryMethod},
			body:         `{"delivery_method": "drone", "payment_method": "upi"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: checkout.ErrInvalidDeliveryMethod.Error()}),
		},
		{
			name:         "Error - address required for home delivery",
			mockService:  mockCheckoutService{error: checkout.ErrAddressRequired},
			body:         `{"delivery_method": "home_delivery", "payment_method": "upi"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: checkout.ErrAddressRequired.Error()}),
		},
		{
			name:         "Error - empty cart",
			mockService:  mockCheckoutService{error: checkout.ErrEmptyCart},
			body:         `{"delivery_method": "pickup", "payment_method": "upi"}`,
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: toJSON(t, ErrorResponse{Error: "Cannot check out an empty cart"}),
		},
		{
			name:         "Error - cart already checked out",
			mockService:  mockCheckoutService{error: cart.ErrCartClosed},
			body:         `{"delivery_method": "pickup", "payment_method": "upi"}`,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "Cart is already checked out"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(tc.body))
			req.Header.Set("X-User-Id", mockUserID.String())
			rr := httptest.NewRecorder()

			// when
			mux.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			}
		})
	}
}

// The identity header is lifted into the request context by the route group
// middleware; the service must see the buyer ID from that header.
func Test_CheckoutAPI_AuthMiddleware(t *testing.T) {
	mockUserID, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174001")

	t.Run("header is propagated to the service", func(t *testing.T) {
		// given
		mockService := mockCheckoutService{order: &order.OrderDto{ID: uuid.New(), UserID: mockUserID}}
		mux := newRouter(&mockService)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"delivery_method": "pickup", "payment_method": "upi"}`))
		req.Header.Set("X-User-Id", mockUserID.String())
		rr := httptest.NewRecorder()

		// when
		mux.ServeHTTP(rr, req)

		// then
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, mockUserID, mockService.gotUserID, "service should receive the header identity")
		assert.Equal(t, checkout.DeliveryPickup, mockService.gotReq.DeliveryMethod)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		// given
		mockService := mockCheckoutService{}
		mux := newRouter(&mockService)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"delivery_method": "pickup", "payment_method": "upi"}`))
		rr := httptest.NewRecorder()

		// when
		mux.ServeHTTP(rr, req)

		// then
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, uuid.Nil, mockService.gotUserID, "service should not be reached")
	})
}
