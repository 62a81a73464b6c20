package order

import (
	"context"

	"github.com/google/uuid"
)

// Store is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type Store interface {
	// FindByID retrieves a single order and its items by the order's unique identifier.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, []OrderItem, error)

	// FindOrdersByUserID returns all orders for a specific user, newest first.
	// Returns an empty slice if no orders exist.
	FindOrdersByUserID(ctx context.Context, userID uuid.UUID, offset, limit int32) ([]Order, error)

	// CreateOrder adds a new order and its items atomically.
	CreateOrder(ctx context.Context, o Order, items []OrderItem) (*Order, []OrderItem, error)

	// UpdateStatus modifies an order's status.
	// Returns ErrOrderNotFound when the id is unknown and ErrOptimisticLock
	// when the supplied version is stale.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int32) (*Order, error)

	// FindItemsByUserID returns every order item belonging to the user's orders.
	// Used by the buyer analytics aggregation.
	FindItemsByUserID(ctx context.Context, userID uuid.UUID) ([]OrderItem, error)

	// FindItemsBySeller returns every order item sold by the given seller.
	// Used by the farmer analytics aggregation.
	FindItemsBySeller(ctx context.Context, seller string) ([]OrderItem, error)
}
