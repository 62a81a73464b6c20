package checkout

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/order"
	"github.com/harvestlink/marketplace/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCarts implements the cart service surface checkout depends on.
type mockCarts struct {
	snapshot  cart.Snapshot
	viewError error
	closed    bool
}

func (m *mockCarts) Get(_ context.Context, _ uuid.UUID) (*cart.CartDto, error) { return nil, nil }
func (m *mockCarts) AddItem(_ context.Context, _, _ uuid.UUID, _ int32) (*cart.CartDto, error) {
	return nil, nil
}
func (m *mockCarts) IncreaseQuantity(_ context.Context, _, _ uuid.UUID) (*cart.CartDto, error) {
	return nil, nil
}
func (m *mockCarts) DecreaseQuantity(_ context.Context, _, _ uuid.UUID) (*cart.CartDto, error) {
	return nil, nil
}
func (m *mockCarts) RemoveItem(_ context.Context, _, _ uuid.UUID) (*cart.CartDto, error) {
	return nil, nil
}
func (m *mockCarts) Reset(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockCarts) CheckoutView(_ context.Context, _ uuid.UUID) (cart.Snapshot, error) {
	return m.snapshot, m.viewError
}

func (m *mockCarts) CloseCart(_ context.Context, _ uuid.UUID) error {
	m.closed = true
	return nil
}

// mockOrders records the order passed to Create.
type mockOrders struct {
	created      *order.Order
	createdItems []order.OrderItem
	error        error
}

func (m *mockOrders) GetByID(_ context.Context, _, _ uuid.UUID) (*order.OrderDto, error) {
	return nil, nil
}

func (m *mockOrders) GetOrdersByUserID(_ context.Context, _ uuid.UUID, _, _ int32) ([]order.OrderDto, error) {
	return nil, nil
}

func (m *mockOrders) Create(_ context.Context, o order.Order, items []order.OrderItem) (*order.OrderDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	m.created = &o
	m.createdItems = items
	dto := order.OrderDto{
		ID:             uuid.New(),
		UserID:         o.UserID,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		DeliveryCharge: o.DeliveryCharge,
		Subtotal:       o.Subtotal,
		Total:          o.Total,
		Version:        1,
	}
	return &dto, nil
}

func (m *mockOrders) UpdateStatus(_ context.Context, _ uuid.UUID, _ order.Status, _ int32) (*order.OrderDto, error) {
	return nil, nil
}

// mockPublisher records published events.
type mockPublisher struct {
	events []messaging.Event
	error  error
}

func (m *mockPublisher) Publish(_ context.Context, event messaging.Event) error {
	if m.error != nil {
		return m.error
	}
	m.events = append(m.events, event)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func filledSnapshot() cart.Snapshot {
	return cart.Snapshot{
		State: cart.StateActive,
		Items: []cart.LineItem{
			{ProductID: uuid.New(), Name: "Organic Maize", Unit: "quintal", Seller: "John Farmer", Category: "Grains", PricePerUnit: 6000, Quantity: 2},
			{ProductID: uuid.New(), Name: "Premium Wheat", Unit: "quintal", Seller: "Jane Grower", Category: "Grains", PricePerUnit: 4000, Quantity: 1},
		},
	}
}

func homeRequest() CheckoutRequestDto {
	return CheckoutRequestDto{
		DeliveryMethod: DeliveryHome,
		PaymentMethod:  PaymentUPI,
		Address: &AddressDto{
			Name: "Asha", Street: "12 Farm Rd", City: "Hyderabad",
			State: "Telangana", Zip: "500001", Contact: "9999999999",
		},
	}
}

func Test_Checkout_Success(t *testing.T) {
	// given
	userID := uuid.New()
	carts := &mockCarts{snapshot: filledSnapshot()}
	orders := &mockOrders{}
	publisher := &mockPublisher{}
	service := NewService(carts, orders, publisher, testLogger())

	// when
	created, err := service.Checkout(context.Background(), userID, homeRequest())

	// then
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, int64(16000), created.Subtotal)
	assert.Equal(t, int64(5000), created.DeliveryCharge)
	assert.Equal(t, int64(21000), created.Total)

	// the order snapshot carries the denormalized line items
	require.Len(t, orders.createdItems, 2)
	assert.Equal(t, int64(12000), orders.createdItems[0].Amount)
	assert.Equal(t, "John Farmer", orders.createdItems[0].Seller)
	require.NotNil(t, orders.created.Address)
	assert.Equal(t, "Hyderabad", orders.created.Address.City)

	// event published and cart closed after the commit
	require.Len(t, publisher.events, 1)
	assert.Equal(t, messaging.OrdersPlacedSubject, publisher.events[0].Subject())
	assert.True(t, carts.closed)
}

func Test_Checkout_PickupHasNoChargeAndNeedsNoAddress(t *testing.T) {
	// given
	carts := &mockCarts{snapshot: filledSnapshot()}
	orders := &mockOrders{}
	service := NewService(carts, orders, nil, testLogger())

	// when
	created, err := service.Checkout(context.Background(), uuid.New(), CheckoutRequestDto{
		DeliveryMethod: DeliveryPickup,
		PaymentMethod:  PaymentCOD,
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(0), created.DeliveryCharge)
	assert.Equal(t, created.Subtotal, created.Total)
	assert.Nil(t, orders.created.Address)
}

func Test_Checkout_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		carts       *mockCarts
		request     CheckoutRequestDto
		expectError error
	}{
		{
			name:        "unknown delivery method",
			carts:       &mockCarts{snapshot: filledSnapshot()},
			request:     CheckoutRequestDto{DeliveryMethod: "drone", PaymentMethod: PaymentUPI},
			expectError: ErrInvalidDeliveryMethod,
		},
		{
			name:        "unknown payment method",
			carts:       &mockCarts{snapshot: filledSnapshot()},
			request:     CheckoutRequestDto{DeliveryMethod: DeliveryPickup, PaymentMethod: "barter"},
			expectError: ErrInvalidPaymentMethod,
		},
		{
			name:        "home delivery without address",
			carts:       &mockCarts{snapshot: filledSnapshot()},
			request:     CheckoutRequestDto{DeliveryMethod: DeliveryHome, PaymentMethod: PaymentUPI},
			expectError: ErrAddressRequired,
		},
		{
			name:        "empty cart",
			carts:       &mockCarts{snapshot: cart.Snapshot{State: cart.StateActive, Items: []cart.LineItem{}}},
			request:     CheckoutRequestDto{DeliveryMethod: DeliveryPickup, PaymentMethod: PaymentUPI},
			expectError: ErrEmptyCart,
		},
		{
			name:        "session without a cart",
			carts:       &mockCarts{viewError: cart.ErrCartNotFound},
			request:     CheckoutRequestDto{DeliveryMethod: DeliveryPickup, PaymentMethod: PaymentUPI},
			expectError: ErrEmptyCart,
		},
		{
			name:        "already checked out",
			carts:       &mockCarts{snapshot: cart.Snapshot{State: cart.StateClosed, Items: filledSnapshot().Items}},
			request:     CheckoutRequestDto{DeliveryMethod: DeliveryPickup, PaymentMethod: PaymentUPI},
			expectError: cart.ErrCartClosed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			orders := &mockOrders{}
			service := NewService(tc.carts, orders, nil, testLogger())
			// when
			created, err := service.Checkout(context.Background(), uuid.New(), tc.request)
			// then
			assert.ErrorIs(t, err, tc.expectError)
			assert.Nil(t, created)
			assert.Nil(t, orders.created, "no order may be created on validation failure")
			assert.False(t, tc.carts.closed, "cart must stay open on validation failure")
		})
	}
}

func Test_Checkout_OrderFailureKeepsCartOpen(t *testing.T) {
	// given
	carts := &mockCarts{snapshot: filledSnapshot()}
	orders := &mockOrders{error: order.ErrCreateOrder}
	service := NewService(carts, orders, nil, testLogger())

	// when
	created, err := service.Checkout(context.Background(), uuid.New(), homeRequest())

	// then
	assert.ErrorIs(t, err, order.ErrCreateOrder)
	assert.Nil(t, created)
	assert.False(t, carts.closed)
}

func Test_Checkout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	// given
	carts := &mockCarts{snapshot: filledSnapshot()}
	publisher := &mockPublisher{error: assert.AnError}
	service := NewService(carts, &mockOrders{}, publisher, testLogger())

	// when
	created, err := service.Checkout(context.Background(), uuid.New(), homeRequest())

	// then: order stands and the cart still closes
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.True(t, carts.closed)
}

func Test_DeliveryMethod_Charge(t *testing.T) {
	charge, ok := DeliveryHome.Charge()
	assert.True(t, ok)
	assert.Equal(t, int64(5000), charge)

	charge, ok = DeliveryPickup.Charge()
	assert.True(t, ok)
	assert.Equal(t, int64(0), charge)

	_, ok = DeliveryMethod("drone").Charge()
	assert.False(t, ok)
}
