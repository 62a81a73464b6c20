package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductSource is a mock implementation of the ProductSource interface
type mockProductSource struct {
	product *Product
	error   error
}

func (m *mockProductSource) ProductInfo(_ context.Context, _ uuid.UUID) (*Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func testProduct() *Product {
	id, _ := uuid.Parse("123e4567-e89b-12d3-a456-426614174000")
	return &Product{
		ID:           id,
		Name:         "Organic Maize",
		Unit:         "quintal",
		Seller:       "John Farmer",
		Category:     "Grains",
		PricePerUnit: 6000,
		InStock:      true,
	}
}

func Test_CartService_Get(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - unknown session yields empty active cart", func(t *testing.T) {
		// given
		service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
		// when
		dto, err := service.Get(context.Background(), userID)
		// then
		require.NoError(t, err)
		assert.Equal(t, string(StateActive), dto.State)
		assert.Empty(t, dto.Items)
		assert.Equal(t, int64(0), dto.Subtotal)
	})

	t.Run("Success - cart survives across calls", func(t *testing.T) {
		// given
		service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
		_, err := service.AddItem(context.Background(), userID, testProduct().ID, 2)
		require.NoError(t, err)
		// when
		dto, err := service.Get(context.Background(), userID)
		// then
		require.NoError(t, err)
		require.Len(t, dto.Items, 1)
		assert.Equal(t, int32(2), dto.Items[0].Quantity)
		assert.Equal(t, int64(12000), dto.Subtotal)
	})
}

func Test_CartService_AddItem(t *testing.T) {
	userID := uuid.New()
	ErrCatalogDown := errors.New("catalog unavailable")

	testCases := []struct {
		name        string
		source      *mockProductSource
		quantity    int32
		expectError error
		expectItems int
	}{
		{
			name:        "Success - item added",
			source:      &mockProductSource{product: testProduct()},
			quantity:    2,
			expectItems: 1,
		},
		{
			name: "Error - out of stock",
			source: &mockProductSource{product: func() *Product {
				p := testProduct()
				p.InStock = false
				return p
			}()},
			quantity:    1,
			expectError: ErrOutOfStock,
		},
		{
			name:        "Error - catalog lookup failed",
			source:      &mockProductSource{error: ErrCatalogDown},
			quantity:    1,
			expectError: ErrCatalogDown,
		},
		{
			name:        "Error - invalid quantity",
			source:      &mockProductSource{product: testProduct()},
			quantity:    -1,
			expectError: ErrInvalidQuantity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(NewMemoryStore(), tc.source, 1)
			// when
			dto, err := service.AddItem(context.Background(), userID, testProduct().ID, tc.quantity)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, dto.Items, tc.expectItems)
		})
	}
}

func Test_CartService_StepOperations(t *testing.T) {
	userID := uuid.New()

	t.Run("increase and decrease use the configured step", func(t *testing.T) {
		// given
		service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 2)
		_, err := service.AddItem(context.Background(), userID, testProduct().ID, 4)
		require.NoError(t, err)

		// when
		dto, err := service.IncreaseQuantity(context.Background(), userID, testProduct().ID)
		require.NoError(t, err)
		assert.Equal(t, int32(6), dto.Items[0].Quantity)

		dto, err = service.DecreaseQuantity(context.Background(), userID, testProduct().ID)
		require.NoError(t, err)
		assert.Equal(t, int32(4), dto.Items[0].Quantity)
	})

	t.Run("adjusting an unknown product is a silent no-op", func(t *testing.T) {
		// given
		service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
		_, err := service.AddItem(context.Background(), userID, testProduct().ID, 2)
		require.NoError(t, err)

		// when
		dto, err := service.IncreaseQuantity(context.Background(), userID, uuid.New())

		// then: no error, cart unchanged
		require.NoError(t, err)
		require.Len(t, dto.Items, 1)
		assert.Equal(t, int32(2), dto.Items[0].Quantity)
	})

	t.Run("decrement clamps at one step", func(t *testing.T) {
		// given
		service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
		_, err := service.AddItem(context.Background(), userID, testProduct().ID, 1)
		require.NoError(t, err)

		// when
		dto, err := service.DecreaseQuantity(context.Background(), userID, testProduct().ID)

		// then
		require.NoError(t, err)
		require.Len(t, dto.Items, 1)
		assert.Equal(t, int32(1), dto.Items[0].Quantity)
	})
}

func Test_CartService_RemoveItem(t *testing.T) {
	userID := uuid.New()

	// given
	service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
	_, err := service.AddItem(context.Background(), userID, testProduct().ID, 5)
	require.NoError(t, err)

	// when
	dto, err := service.RemoveItem(context.Background(), userID, testProduct().ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)

	// then: removing again stays a silent no-op
	dto, err = service.RemoveItem(context.Background(), userID, testProduct().ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func Test_CartService_CheckoutFlow(t *testing.T) {
	userID := uuid.New()

	// given
	service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
	_, err := service.AddItem(context.Background(), userID, testProduct().ID, 2)
	require.NoError(t, err)

	// when
	snapshot, err := service.CheckoutView(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, StateActive, snapshot.State)
	assert.Equal(t, int64(12000), snapshot.Subtotal())

	require.NoError(t, service.CloseCart(context.Background(), userID))

	// then: the closed cart rejects further mutations
	_, err = service.AddItem(context.Background(), userID, testProduct().ID, 1)
	assert.ErrorIs(t, err, ErrCartClosed)
	_, err = service.IncreaseQuantity(context.Background(), userID, testProduct().ID)
	assert.ErrorIs(t, err, ErrCartClosed)
	_, err = service.RemoveItem(context.Background(), userID, testProduct().ID)
	assert.ErrorIs(t, err, ErrCartClosed)

	// closing twice is rejected as well
	assert.ErrorIs(t, service.CloseCart(context.Background(), userID), ErrCartClosed)

	// Reset destroys the closed cart; the next session starts fresh
	require.NoError(t, service.Reset(context.Background(), userID))
	dto, err := service.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, string(StateActive), dto.State)
	assert.Empty(t, dto.Items)
}

func Test_CartService_SessionIsolation(t *testing.T) {
	// given
	service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
	alice := uuid.New()
	bob := uuid.New()

	// when
	_, err := service.AddItem(context.Background(), alice, testProduct().ID, 3)
	require.NoError(t, err)

	// then
	bobCart, err := service.Get(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, bobCart.Items)
}

func Test_CartService_ConcurrentAdds(t *testing.T) {
	// given
	service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
	userID := uuid.New()
	const workers = 20

	// when
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.AddItem(context.Background(), userID, testProduct().ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// then: all adds merged into a single line item
	dto, err := service.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, int32(workers), dto.Items[0].Quantity)
	assert.Equal(t, int64(workers*6000), dto.Subtotal)
}

func Test_CartService_CheckoutViewDuringConcurrentAdds(t *testing.T) {
	// given
	service := NewService(NewMemoryStore(), &mockProductSource{product: testProduct()}, 1)
	userID := uuid.New()
	const adds = 20

	_, err := service.AddItem(context.Background(), userID, testProduct().ID, 1)
	require.NoError(t, err)

	// when: snapshots are taken while another writer mutates the session
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			_, err := service.AddItem(context.Background(), userID, testProduct().ID, 1)
			assert.NoError(t, err)
		}
	}()
	for i := 0; i < adds; i++ {
		snapshot, err := service.CheckoutView(context.Background(), userID)
		require.NoError(t, err)

		// then: every snapshot is internally consistent
		var sum int64
		for _, li := range snapshot.Items {
			sum += int64(li.Quantity) * li.PricePerUnit
		}
		assert.Equal(t, sum, snapshot.Subtotal())
	}
	wg.Wait()

	// all adds survived the interleaved reads
	final, err := service.CheckoutView(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, final.Items, 1)
	assert.Equal(t, int32(adds+1), final.Items[0].Quantity)
}
