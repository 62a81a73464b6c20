package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ProductSource supplies the product data the ledger needs at add time.
// The catalog service implements it.
type ProductSource interface {
	// ProductInfo returns the current catalog view of a product.
	ProductInfo(ctx context.Context, id uuid.UUID) (*Product, error)
}

// CartService defines the methods for managing per-session carts.
// It abstracts the underlying business logic and data access.
type CartService interface {
	// Get returns the current cart for a buyer session.
	// A session with no cart yet yields an empty active cart.
	Get(ctx context.Context, userID uuid.UUID) (*CartDto, error)

	// AddItem adds quantity units of a product to the session cart,
	// merging with an existing line item for the same product.
	// Returns ErrOutOfStock for an unavailable product and ErrCartClosed
	// after checkout.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartDto, error)

	// IncreaseQuantity raises a line item's quantity by the configured step.
	// A product id not present in the cart is a no-op.
	IncreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*CartDto, error)

	// DecreaseQuantity lowers a line item's quantity by the configured step,
	// clamped so it never goes below one step.
	DecreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*CartDto, error)

	// RemoveItem deletes a line item entirely. Removing an absent item is a no-op.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDto, error)

	// Reset destroys the session cart so the next AddItem starts a fresh one.
	Reset(ctx context.Context, userID uuid.UUID) error

	// CheckoutView returns a read-only snapshot of the session cart for checkout.
	// Returns ErrCartNotFound when the session has no cart.
	CheckoutView(ctx context.Context, userID uuid.UUID) (Snapshot, error)

	// CloseCart transitions the session cart to Closed after a successful checkout.
	CloseCart(ctx context.Context, userID uuid.UUID) error
}

// Service implements CartService over a Store and a ProductSource.
// Mutations are serialized per session: one mutation in flight at a time
// per buyer, which preserves the merge and clamp invariants when the
// service is exposed over a network with concurrent requests.
type Service struct {
	store   Store
	catalog ProductSource
	step    int32

	mu       sync.Mutex
	sessions map[uuid.UUID]*sync.Mutex
}

// NewService creates a new instance of CartService. step is the fixed
// increment used by IncreaseQuantity/DecreaseQuantity for this deployment.
func NewService(store Store, catalog ProductSource, step int32) *Service {
	if step <= 0 {
		step = 1
	}
	return &Service{
		store:    store,
		catalog:  catalog,
		step:     step,
		sessions: make(map[uuid.UUID]*sync.Mutex),
	}
}

// CartDto represents the data transfer object for a session cart.
type CartDto struct {
	State    string        `json:"state"`
	Items    []CartItemDto `json:"items"`
	Subtotal int64         `json:"subtotal"`
}

// CartItemDto represents a single line item in the cart DTO.
type CartItemDto struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Seller       string    `json:"seller"`
	PricePerUnit int64     `json:"price_per_unit"`
	Quantity     int32     `json:"quantity"`
	Amount       int64     `json:"amount"`
}

// sessionLock returns the mutex serializing mutations for one buyer session.
func (s *Service) sessionLock(userID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.sessions[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessions[userID] = lock
	}
	return lock
}

// load returns the session ledger, or a fresh empty one when none exists yet.
func (s *Service) load(ctx context.Context, userID uuid.UUID) (*Ledger, error) {
	ledger, err := s.store.Load(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return NewLedger(), nil
		}
		return nil, err
	}
	return ledger, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartDto, error) {
	ledger, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDto(ledger), nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartDto, error) {
	lock := s.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalog.ProductInfo(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := ledger.AddItem(*product, quantity); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, userID, ledger); err != nil {
		return nil, err
	}
	return toDto(ledger), nil
}

func (s *Service) IncreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*CartDto, error) {
	return s.adjust(ctx, userID, productID, (*Ledger).IncreaseQuantity)
}

func (s *Service) DecreaseQuantity(ctx context.Context, userID, productID uuid.UUID) (*CartDto, error) {
	return s.adjust(ctx, userID, productID, (*Ledger).DecreaseQuantity)
}

// adjust runs a step mutation under the session lock and saves only when
// the ledger actually matched a line item.
func (s *Service) adjust(ctx context.Context, userID, productID uuid.UUID, op func(*Ledger, uuid.UUID, int32) (bool, error)) (*CartDto, error) {
	lock := s.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	found, err := op(ledger, productID, s.step)
	if err != nil {
		return nil, err
	}
	if found {
		if err := s.store.Save(ctx, userID, ledger); err != nil {
			return nil, err
		}
	}
	return toDto(ledger), nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDto, error) {
	lock := s.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	found, err := ledger.RemoveItem(productID)
	if err != nil {
		return nil, err
	}
	if found {
		if err := s.store.Save(ctx, userID, ledger); err != nil {
			return nil, err
		}
	}
	return toDto(ledger), nil
}

func (s *Service) Reset(ctx context.Context, userID uuid.UUID) error {
	lock := s.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.store.Delete(ctx, userID)
}

func (s *Service) CheckoutView(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	lock := s.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.store.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return ledger.Snapshot(), nil
}

func (s *Service) CloseCart(ctx context.Context, userID uuid.UUID) error {
	lock := s.sessionLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.store.Load(ctx, userID)
	if err != nil {
		return err
	}
	if err := ledger.Close(); err != nil {
		return err
	}
	return s.store.Save(ctx, userID, ledger)
}

// toDto converts a Ledger to a CartDto.
func toDto(ledger *Ledger) *CartDto {
	items := ledger.Items()
	itemDtos := make([]CartItemDto, 0, len(items))
	for _, li := range items {
		itemDtos = append(itemDtos, CartItemDto{
			ProductID:    li.ProductID,
			Name:         li.Name,
			Unit:         li.Unit,
			Seller:       li.Seller,
			PricePerUnit: li.PricePerUnit,
			Quantity:     li.Quantity,
			Amount:       li.Amount(),
		})
	}
	return &CartDto{
		State:    string(ledger.State()),
		Items:    itemDtos,
		Subtotal: ledger.Subtotal(),
	}
}
