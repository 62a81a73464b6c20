package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(userID uuid.UUID) (Order, []OrderItem) {
	o := Order{
		UserID:         userID,
		Status:         StatusPending,
		PaymentMethod:  "upi",
		DeliveryMethod: "home_delivery",
		DeliveryCharge: 5000,
		Address:        &Address{Name: "Asha", Street: "12 Farm Rd", City: "Hyderabad", State: "Telangana", Zip: "500001", Contact: "9999999999"},
		Subtotal:       12000,
		Total:          17000,
	}
	items := []OrderItem{
		{ProductID: uuid.New(), Name: "Organic Maize", Unit: "quintal", Seller: "John Farmer", Category: "Grains", Quantity: 2, PricePerUnit: 6000, Amount: 12000},
	}
	return o, items
}

func Test_MemoryStore_CreateAndFind(t *testing.T) {
	// given
	store := NewMemoryStore()
	userID := uuid.New()
	o, items := newOrder(userID)

	// when
	created, createdItems, err := store.CreateOrder(context.Background(), o, items)

	// then
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, int32(1), created.Version)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, createdItems, 1)
	assert.Equal(t, created.ID, createdItems[0].OrderID)

	found, foundItems, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, StatusPending, found.Status)
	require.Len(t, foundItems, 1)
	assert.Equal(t, "Organic Maize", foundItems[0].Name)

	_, _, err = store.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func Test_MemoryStore_FindOrdersByUserID(t *testing.T) {
	// given
	store := NewMemoryStore()
	userID := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		o, items := newOrder(userID)
		_, _, err := store.CreateOrder(context.Background(), o, items)
		require.NoError(t, err)
	}
	o, items := newOrder(other)
	_, _, err := store.CreateOrder(context.Background(), o, items)
	require.NoError(t, err)

	// when
	orders, err := store.FindOrdersByUserID(context.Background(), userID, 0, 10)

	// then
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for _, got := range orders {
		assert.Equal(t, userID, got.UserID)
	}
	// newest first
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt))
	}

	// pagination window
	page, err := store.FindOrdersByUserID(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	// unknown user yields empty slice
	none, err := store.FindOrdersByUserID(context.Background(), uuid.New(), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func Test_MemoryStore_UpdateStatus(t *testing.T) {
	// given
	store := NewMemoryStore()
	o, items := newOrder(uuid.New())
	created, _, err := store.CreateOrder(context.Background(), o, items)
	require.NoError(t, err)

	// when: matching version succeeds and bumps the version
	updated, err := store.UpdateStatus(context.Background(), created.ID, StatusProcessing, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, updated.Status)
	assert.Equal(t, int32(2), updated.Version)

	// then: stale version is rejected
	_, err = store.UpdateStatus(context.Background(), created.ID, StatusShipped, 1)
	assert.ErrorIs(t, err, ErrOptimisticLock)

	// unknown order id
	_, err = store.UpdateStatus(context.Background(), uuid.New(), StatusShipped, 1)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func Test_MemoryStore_AnalyticsQueries(t *testing.T) {
	// given
	store := NewMemoryStore()
	userID := uuid.New()
	o, items := newOrder(userID)
	items = append(items, OrderItem{ProductID: uuid.New(), Name: "Premium Wheat", Unit: "quintal", Seller: "Jane Grower", Category: "Grains", Quantity: 3, PricePerUnit: 4000, Amount: 12000})
	_, _, err := store.CreateOrder(context.Background(), o, items)
	require.NoError(t, err)

	// when / then
	byUser, err := store.FindItemsByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	bySeller, err := store.FindItemsBySeller(context.Background(), "Jane Grower")
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.Equal(t, "Premium Wheat", bySeller[0].Name)

	none, err := store.FindItemsBySeller(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
