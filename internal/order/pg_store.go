package order

import (
	"context"
	"errors"

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

const orderColumns = `id, user_id, status, payment_method, delivery_method, delivery_charge, address, subtotal, total, version, created_at`
const itemColumns = `id, order_id, product_id, name, unit, seller, category, quantity, price_per_unit, amount, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.DeliveryMethod,
		&o.DeliveryCharge, &o.Address, &o.Subtotal, &o.Total, &o.Version, &o.CreatedAt)
	return o, err
}

func scanItem(row pgx.Row) (OrderItem, error) {
	var item OrderItem
	err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Unit,
		&item.Seller, &item.Category, &item.Quantity, &item.PricePerUnit, &item.Amount, &item.CreatedAt)
	return item, err
}

func (s *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Order, []OrderItem, error) {
	var o *Order
	var items []OrderItem

	// Use transaction to ensure atomicity and consistency
	txErr := s.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
		found, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return ErrFailedToFindOrder
		}
		rows, err := tx.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at ASC, id ASC`, id)
		if err != nil {
			return ErrFailedToFindOrderItems
		}
		items, err = collectItems(rows)
		if err != nil {
			return ErrFailedToFindOrderItems
		}
		o = &found
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}
	return o, items, nil
}

func collectItems(rows pgx.Rows) ([]OrderItem, error) {
	defer rows.Close()
	items := make([]OrderItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PgStore) FindOrdersByUserID(ctx context.Context, userID uuid.UUID, offset, limit int32) ([]Order, error) {
	// No need for transaction here as we are making just one query to fetch orders
	rows, err := s.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		userID, offset, limit)
	if err != nil {
		return nil, ErrFailedToFindUserOrders
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, ErrFailedToFindUserOrders
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrFailedToFindUserOrders
	}
	return orders, nil
}

func (s *PgStore) CreateOrder(ctx context.Context, o Order, items []OrderItem) (*Order, []OrderItem, error) {
	var created *Order
	var createdItems []OrderItem

	txErr := s.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO orders (user_id, status, payment_method, delivery_method, delivery_charge, address, subtotal, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+orderColumns,
			o.UserID, o.Status, o.PaymentMethod, o.DeliveryMethod, o.DeliveryCharge, o.Address, o.Subtotal, o.Total)
		insertedOrder, err := scanOrder(row)
		if err != nil {
			return ErrCreateOrder
		}

		inserted := make([]OrderItem, 0, len(items))
		for _, item := range items {
			row := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, name, unit, seller, category, quantity, price_per_unit, amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING `+itemColumns,
				insertedOrder.ID, item.ProductID, item.Name, item.Unit, item.Seller, item.Category,
				item.Quantity, item.PricePerUnit, item.Amount)
			insertedItem, err := scanItem(row)
			if err != nil {
				return ErrCreateOrderItem
			}
			inserted = append(inserted, insertedItem)
		}
		created = &insertedOrder
		createdItems = inserted
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}
	return created, createdItems, nil
}

func (s *PgStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int32) (*Order, error) {
	var updated Order

	txErr := s.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			UPDATE orders SET status = $1, version = version + 1
			WHERE id = $2 AND version = $3
			RETURNING `+orderColumns,
			status, id, version)
		var err error
		updated, err = scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Check if the order exists, or it's an optimistic lock error.
				exists := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
				if _, findErr := scanOrder(exists); findErr != nil {
					if errors.Is(findErr, pgx.ErrNoRows) {
						return ErrOrderNotFound
					}
					return ErrFailedToFindOrder
				}
				return ErrOptimisticLock
			}
			return ErrUpdateOrder
		}
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return &updated, nil
}

func (s *PgStore) FindItemsByUserID(ctx context.Context, userID uuid.UUID) ([]OrderItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.name, i.unit, i.seller, i.category, i.quantity, i.price_per_unit, i.amount, i.created_at
		FROM order_items i JOIN orders o ON o.id = i.order_id
		WHERE o.user_id = $1`, userID)
	if err != nil {
		return nil, ErrFailedToFindOrderItems
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, ErrFailedToFindOrderItems
	}
	return items, nil
}

func (s *PgStore) FindItemsBySeller(ctx context.Context, seller string) ([]OrderItem, error) {
	rows, err := s.db.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE seller = $1`, seller)
	if err != nil {
		return nil, ErrFailedToFindOrderItems
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, ErrFailedToFindOrderItems
	}
	return items, nil
}

func (s *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return ErrTransactionBegin
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ErrTransactionCommit
	}
	return nil
}
