package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Store is an interface for catalog storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type Store interface {
	// FindProductByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindProductByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindProducts returns products matching the filter, in the filter's sort order.
	// Returns an empty slice if nothing matches.
	FindProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// CreateProduct adds a new product to the catalog.
	CreateProduct(ctx context.Context, p Product) (*Product, error)

	// UpdateProduct modifies an existing product's details.
	// Returns ErrProductNotFound when the id is unknown and ErrOptimisticLock
	// when the supplied version is stale.
	UpdateProduct(ctx context.Context, p Product) (*Product, error)

	// FindFarmerByID retrieves a farmer profile by its unique identifier.
	// Returns ErrFarmerNotFound if no farmer exists with the given ID.
	FindFarmerByID(ctx context.Context, id uuid.UUID) (*Farmer, error)

	// FindFarmers returns farmer profiles with pagination.
	FindFarmers(ctx context.Context, offset, limit int32) ([]Farmer, error)

	// CreateFarmer adds a new farmer profile.
	CreateFarmer(ctx context.Context, f Farmer) (*Farmer, error)
}
