package order

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Address is the structured delivery address captured at checkout.
type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Contact string `json:"contact"`
}

// Order is an immutable snapshot of a checked-out cart plus delivery
// and payment details. Amounts are in paise.
type Order struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Status         Status
	PaymentMethod  string
	DeliveryMethod string
	DeliveryCharge int64
	Address        *Address
	Subtotal       int64
	Total          int64
	Version        int32
	CreatedAt      time.Time
}

// OrderItem is one line of an order, denormalized at checkout time so the
// history stays stable under later catalog changes.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	Name         string
	Unit         string
	Seller       string
	Category     string
	Quantity     int32
	PricePerUnit int64
	Amount       int64
	CreatedAt    time.Time
}
