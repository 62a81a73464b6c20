package cart

import (
	"github.com/google/uuid"
)

// State is the lifecycle state of a ledger. The transition is one-way:
// Active -> Closed, triggered only by a successful checkout.
type State string

const (
	StateActive State = "active"
	StateClosed State = "closed"
)

// Product is the read-only view of a catalog product the ledger needs
// when an item is added. Prices are in paise.
type Product struct {
	ID           uuid.UUID
	Name         string
	Unit         string
	Seller       string
	Category     string
	PricePerUnit int64
	InStock      bool
}

// LineItem is one product-and-quantity pairing inside a cart.
// PricePerUnit is snapshotted at add time, so later catalog price changes
// do not alter amounts already in the cart.
type LineItem struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Seller       string    `json:"seller"`
	Category     string    `json:"category"`
	PricePerUnit int64     `json:"price_per_unit"`
	Quantity     int32     `json:"quantity"`
}

// Amount returns quantity x unit price for this line item, in paise.
func (li LineItem) Amount() int64 {
	return li.PricePerUnit * int64(li.Quantity)
}

// Snapshot is the serializable form of a ledger. Checkout consumes it
// read-only; the Redis store persists it between requests.
type Snapshot struct {
	State State      `json:"state"`
	Items []LineItem `json:"items"`
}

// Subtotal returns the sum of line-item amounts in the snapshot.
func (s Snapshot) Subtotal() int64 {
	var sum int64
	for _, li := range s.Items {
		sum += li.Amount()
	}
	return sum
}

// Ledger owns the ordered line-item collection for one buyer session.
// It is not safe for concurrent use; the Service serializes access per session.
type Ledger struct {
	state State
	items []LineItem
}

// NewLedger creates an empty ledger in the Active state.
func NewLedger() *Ledger {
	return &Ledger{state: StateActive}
}

// Restore rebuilds a ledger from a previously taken snapshot.
func Restore(s Snapshot) *Ledger {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	state := s.State
	if state == "" {
		state = StateActive
	}
	return &Ledger{state: state, items: items}
}

// State returns the current lifecycle state.
func (l *Ledger) State() State {
	return l.state
}

// Len returns the number of line items.
func (l *Ledger) Len() int {
	return len(l.items)
}

// IsEmpty reports whether the ledger holds no line items.
func (l *Ledger) IsEmpty() bool {
	return len(l.items) == 0
}

// Items returns a copy of the line items in insertion order.
func (l *Ledger) Items() []LineItem {
	items := make([]LineItem, len(l.items))
	copy(items, l.items)
	return items
}

// Snapshot returns the serializable form of the ledger.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{State: l.state, Items: l.Items()}
}

// AddItem adds quantity units of product to the ledger.
// If a line item for the product already exists its quantity is increased
// (additive merge, the original price snapshot is kept); otherwise a new
// line item is appended at the end.
// Returns ErrOutOfStock when the product is unavailable, ErrCartClosed
// after checkout, ErrInvalidQuantity for a non-positive quantity.
func (l *Ledger) AddItem(p Product, quantity int32) error {
	if l.state == StateClosed {
		return ErrCartClosed
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !p.InStock {
		return ErrOutOfStock
	}
	for i := range l.items {
		if l.items[i].ProductID == p.ID {
			l.items[i].Quantity += quantity
			return nil
		}
	}
	l.items = append(l.items, LineItem{
		ProductID:    p.ID,
		Name:         p.Name,
		Unit:         p.Unit,
		Seller:       p.Seller,
		Category:     p.Category,
		PricePerUnit: p.PricePerUnit,
		Quantity:     quantity,
	})
	return nil
}

// IncreaseQuantity raises the quantity of the matching line item by step.
// A missing product id is a no-op, reported through found=false.
func (l *Ledger) IncreaseQuantity(productID uuid.UUID, step int32) (found bool, err error) {
	if l.state == StateClosed {
		return false, ErrCartClosed
	}
	if step <= 0 {
		return false, ErrInvalidQuantity
	}
	for i := range l.items {
		if l.items[i].ProductID == productID {
			l.items[i].Quantity += step
			return true, nil
		}
	}
	return false, nil
}

// DecreaseQuantity lowers the quantity of the matching line item by step.
// The quantity never goes below one step: decrementing at the floor is a
// no-op, it does not remove the line item. A missing product id is a no-op.
func (l *Ledger) DecreaseQuantity(productID uuid.UUID, step int32) (found bool, err error) {
	if l.state == StateClosed {
		return false, ErrCartClosed
	}
	if step <= 0 {
		return false, ErrInvalidQuantity
	}
	for i := range l.items {
		if l.items[i].ProductID == productID {
			if next := l.items[i].Quantity - step; next >= step {
				l.items[i].Quantity = next
			}
			return true, nil
		}
	}
	return false, nil
}

// RemoveItem deletes the line item matching productID regardless of quantity.
// A missing product id is a no-op, reported through found=false.
func (l *Ledger) RemoveItem(productID uuid.UUID) (found bool, err error) {
	if l.state == StateClosed {
		return false, ErrCartClosed
	}
	for i := range l.items {
		if l.items[i].ProductID == productID {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Subtotal returns the sum of quantity x snapshotted unit price over all
// line items, recomputed fresh each call. Zero for an empty ledger.
func (l *Ledger) Subtotal() int64 {
	var sum int64
	for _, li := range l.items {
		sum += li.Amount()
	}
	return sum
}

// Total returns Subtotal plus the delivery charge supplied by checkout.
func (l *Ledger) Total(deliveryCharge int64) int64 {
	return l.Subtotal() + deliveryCharge
}

// Close transitions the ledger to the Closed state. The transition is
// one-way; closing an already closed ledger returns ErrCartClosed.
func (l *Ledger) Close() error {
	if l.state == StateClosed {
		return ErrCartClosed
	}
	l.state = StateClosed
	return nil
}
