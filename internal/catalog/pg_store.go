package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of Store using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const productColumns = `id, name, description, category, unit, price_per_unit, seller, location, stock_quantity, version, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Unit, &p.PricePerUnit,
		&p.Seller, &p.Location, &p.StockQuantity, &p.Version, &p.CreatedAt)
	return p, err
}

func (s *PgStore) FindProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToFindProduct, err)
	}
	return &p, nil
}

func (s *PgStore) FindProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + productColumns + ` FROM products`)

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Location != "" {
		conds = append(conds, "location ILIKE "+arg("%"+filter.Location+"%"))
	}
	if filter.MinPrice > 0 {
		conds = append(conds, "price_per_unit >= "+arg(filter.MinPrice))
	}
	if filter.MaxPrice > 0 {
		conds = append(conds, "price_per_unit <= "+arg(filter.MaxPrice))
	}
	if filter.InStockOnly {
		conds = append(conds, "stock_quantity > 0")
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	switch filter.Sort {
	case SortPriceAsc:
		b.WriteString(" ORDER BY price_per_unit ASC, created_at ASC")
	case SortPriceDesc:
		b.WriteString(" ORDER BY price_per_unit DESC, created_at ASC")
	default:
		b.WriteString(" ORDER BY created_at ASC")
	}

	b.WriteString(" OFFSET " + arg(filter.Offset))
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}

	rows, err := s.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToListProducts, err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToListProducts, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToListProducts, err)
	}
	return products, nil
}

func (s *PgStore) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO products (name, description, category, unit, price_per_unit, seller, location, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Category, p.Unit, p.PricePerUnit, p.Seller, p.Location, p.StockQuantity)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToCreateProduct, err)
	}
	return &created, nil
}

func (s *PgStore) UpdateProduct(ctx context.Context, p Product) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, unit = $4, price_per_unit = $5,
		    seller = $6, location = $7, stock_quantity = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING `+productColumns,
		p.Name, p.Description, p.Category, p.Unit, p.PricePerUnit,
		p.Seller, p.Location, p.StockQuantity, p.ID, p.Version)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Check if the product exists, or it's an optimistic lock error.
			if _, findErr := s.FindProductByID(ctx, p.ID); findErr != nil {
				return nil, findErr
			}
			return nil, ErrOptimisticLock
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToUpdateProduct, err)
	}
	return &updated, nil
}

const farmerColumns = `id, name, location, produce, rating, created_at`

func scanFarmer(row pgx.Row) (Farmer, error) {
	var f Farmer
	err := row.Scan(&f.ID, &f.Name, &f.Location, &f.Produce, &f.Rating, &f.CreatedAt)
	return f, err
}

func (s *PgStore) FindFarmerByID(ctx context.Context, id uuid.UUID) (*Farmer, error) {
	row := s.db.QueryRow(ctx, `SELECT `+farmerColumns+` FROM farmers WHERE id = $1`, id)
	f, err := scanFarmer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFarmerNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToFindFarmer, err)
	}
	return &f, nil
}

func (s *PgStore) FindFarmers(ctx context.Context, offset, limit int32) ([]Farmer, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+farmerColumns+` FROM farmers ORDER BY created_at ASC OFFSET $1 LIMIT $2`,
		offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToListFarmers, err)
	}
	defer rows.Close()

	farmers := make([]Farmer, 0)
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToListFarmers, err)
		}
		farmers = append(farmers, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToListFarmers, err)
	}
	return farmers, nil
}

func (s *PgStore) CreateFarmer(ctx context.Context, f Farmer) (*Farmer, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO farmers (name, location, produce, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING `+farmerColumns,
		f.Name, f.Location, f.Produce, f.Rating)
	created, err := scanFarmer(row)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToListFarmers, err)
	}
	return &created, nil
}
