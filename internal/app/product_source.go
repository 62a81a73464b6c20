package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/catalog"
)

var _ cart.ProductSource = (*productSource)(nil)

// productSource adapts the catalog store to the cart's product lookup.
type productSource struct {
	store catalog.Store
}

func newProductSource(store catalog.Store) *productSource {
	return &productSource{store: store}
}

func (s *productSource) ProductInfo(ctx context.Context, id uuid.UUID) (*cart.Product, error) {
	p, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &cart.Product{
		ID:           p.ID,
		Name:         p.Name,
		Unit:         p.Unit,
		Seller:       p.Seller,
		Category:     p.Category,
		PricePerUnit: p.PricePerUnit,
		InStock:      p.InStock(),
	}, nil
}
