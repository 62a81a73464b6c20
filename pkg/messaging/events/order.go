package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/pkg/messaging"
)

// OrderPlacedEvent is emitted once checkout commits an order.
type OrderPlacedEvent struct {
	OrderID        uuid.UUID `json:"order_id"`
	UserID         uuid.UUID `json:"user_id"`
	Total          int64     `json:"total"`
	DeliveryMethod string    `json:"delivery_method"`
	PaymentMethod  string    `json:"payment_method"`
	CreatedAt      time.Time `json:"created_at"`
}

func (o OrderPlacedEvent) Subject() string {
	return messaging.OrdersPlacedSubject
}

func (o OrderPlacedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
