package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog product entity. Prices are in paise.
type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Category      string
	Unit          string
	PricePerUnit  int64
	Seller        string
	Location      string
	StockQuantity int32
	Version       int32
	CreatedAt     time.Time
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// Farmer is a seller profile shown on the marketplace.
type Farmer struct {
	ID        uuid.UUID
	Name      string
	Location  string
	Produce   []string
	Rating    float64
	CreatedAt time.Time
}

// Sort orders for product listings.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ProductFilter narrows and orders a product listing.
// Zero values leave the corresponding dimension unconstrained.
type ProductFilter struct {
	Query       string
	Category    string
	Location    string
	MinPrice    int64
	MaxPrice    int64
	InStockOnly bool
	Sort        string
	Offset      int32
	Limit       int32
}
