package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CatalogService defines the methods for browsing and managing the catalog.
// It abstracts the underlying business logic and data access.
type CatalogService interface {
	// FindProduct retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindProduct(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// ListProducts returns products matching the filter.
	// Returns an empty slice if nothing matches.
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductDto, error)

	// CreateProduct adds a new product to the catalog.
	CreateProduct(ctx context.Context, dto ProductCreateDto) (*ProductDto, error)

	// UpdateProduct modifies an existing product's details.
	// Returns ErrProductNotFound or ErrOptimisticLock on version conflicts.
	UpdateProduct(ctx context.Context, dto ProductUpdateDto) (*ProductDto, error)

	// FindFarmer retrieves a farmer profile by its unique identifier.
	FindFarmer(ctx context.Context, id uuid.UUID) (*FarmerDto, error)

	// ListFarmers returns farmer profiles with pagination.
	ListFarmers(ctx context.Context, offset, limit int32) ([]FarmerDto, error)
}

// Service implements CatalogService and provides methods to manage the catalog.
type Service struct {
	store Store
}

// NewService creates a new instance of CatalogService with the provided store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ProductDto represents the data transfer object for a catalog product.
type ProductDto struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Unit          string    `json:"unit"`
	PricePerUnit  int64     `json:"price_per_unit"`
	Seller        string    `json:"seller"`
	Location      string    `json:"location"`
	StockQuantity int32     `json:"stock_quantity"`
	InStock       bool      `json:"in_stock"`
	Version       int32     `json:"version"`
	CreatedAt     string    `json:"created_at"`
}

// ProductCreateDto represents the data transfer object for creating a product.
type ProductCreateDto struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	Category      string `json:"category" validate:"required"`
	Unit          string `json:"unit" validate:"required"`
	PricePerUnit  int64  `json:"price_per_unit" validate:"required,min=0"`
	Seller        string `json:"seller" validate:"required"`
	Location      string `json:"location" validate:"required"`
	StockQuantity int32  `json:"stock_quantity" validate:"min=0"`
}

// ProductUpdateDto represents the data transfer object for updating a product.
type ProductUpdateDto struct {
	ID            uuid.UUID `json:"id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description"`
	Category      string    `json:"category" validate:"required"`
	Unit          string    `json:"unit" validate:"required"`
	PricePerUnit  int64     `json:"price_per_unit" validate:"required,min=0"`
	Seller        string    `json:"seller" validate:"required"`
	Location      string    `json:"location" validate:"required"`
	StockQuantity int32     `json:"stock_quantity" validate:"min=0"`
	Version       int32     `json:"version" validate:"required,min=1"`
}

// FarmerDto represents the data transfer object for a farmer profile.
type FarmerDto struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Produce   []string  `json:"produce"`
	Rating    float64   `json:"rating"`
	CreatedAt string    `json:"created_at"`
}

func (s *Service) FindProduct(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDto(product), nil
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductDto, error) {
	products, err := s.store.FindProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDto, 0, len(products))
	for i := range products {
		dtos = append(dtos, *toProductDto(&products[i]))
	}
	return dtos, nil
}

func (s *Service) CreateProduct(ctx context.Context, dto ProductCreateDto) (*ProductDto, error) {
	created, err := s.store.CreateProduct(ctx, Product{
		Name:          dto.Name,
		Description:   dto.Description,
		Category:      dto.Category,
		Unit:          dto.Unit,
		PricePerUnit:  dto.PricePerUnit,
		Seller:        dto.Seller,
		Location:      dto.Location,
		StockQuantity: dto.StockQuantity,
	})
	if err != nil {
		return nil, err
	}
	return toProductDto(created), nil
}

func (s *Service) UpdateProduct(ctx context.Context, dto ProductUpdateDto) (*ProductDto, error) {
	updated, err := s.store.UpdateProduct(ctx, Product{
		ID:            dto.ID,
		Name:          dto.Name,
		Description:   dto.Description,
		Category:      dto.Category,
		Unit:          dto.Unit,
		PricePerUnit:  dto.PricePerUnit,
		Seller:        dto.Seller,
		Location:      dto.Location,
		StockQuantity: dto.StockQuantity,
		Version:       dto.Version,
	})
	if err != nil {
		return nil, err
	}
	return toProductDto(updated), nil
}

func (s *Service) FindFarmer(ctx context.Context, id uuid.UUID) (*FarmerDto, error) {
	farmer, err := s.store.FindFarmerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFarmerDto(farmer), nil
}

func (s *Service) ListFarmers(ctx context.Context, offset, limit int32) ([]FarmerDto, error) {
	farmers, err := s.store.FindFarmers(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]FarmerDto, 0, len(farmers))
	for i := range farmers {
		dtos = append(dtos, *toFarmerDto(&farmers[i]))
	}
	return dtos, nil
}

// toProductDto converts a Product to a ProductDto.
func toProductDto(p *Product) *ProductDto {
	if p == nil {
		return nil
	}
	return &ProductDto{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Unit:          p.Unit,
		PricePerUnit:  p.PricePerUnit,
		Seller:        p.Seller,
		Location:      p.Location,
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// toFarmerDto converts a Farmer to a FarmerDto.
func toFarmerDto(f *Farmer) *FarmerDto {
	if f == nil {
		return nil
	}
	return &FarmerDto{
		ID:        f.ID,
		Name:      f.Name,
		Location:  f.Location,
		Produce:   f.Produce,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}
