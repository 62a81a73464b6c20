package messaging

import (
	"context"
)

// OrdersPlacedSubject is the subject on which checkout publishes order events.
const OrdersPlacedSubject = "orders.placed"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
