// Package checkout turns a session cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/order"
	"github.com/harvestlink/marketplace/pkg/messaging"
	"github.com/harvestlink/marketplace/pkg/messaging/events"
)

// CheckoutService defines the checkout business operation.
type CheckoutService interface {
	// Checkout validates the request, persists the order and closes the
	// session cart. The cart is closed only after the order commits.
	Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequestDto) (*order.OrderDto, error)
}

// Service coordinates the cart, order store and event publisher during checkout.
type Service struct {
	carts     cart.CartService
	orders    order.OrderService
	publisher messaging.Publisher
	log       *slog.Logger
}

// NewService creates a new instance of Service.
// The publisher may be nil when messaging is disabled.
func NewService(carts cart.CartService, orders order.OrderService, publisher messaging.Publisher, logger *slog.Logger) *Service {
	return &Service{carts: carts, orders: orders, publisher: publisher, log: logger}
}

// CheckoutRequestDto carries the buyer's delivery and payment choices.
type CheckoutRequestDto struct {
	DeliveryMethod DeliveryMethod `json:"delivery_method" validate:"required"`
	PaymentMethod  PaymentMethod  `json:"payment_method" validate:"required"`
	Address        *AddressDto    `json:"address,omitempty"`
}

// AddressDto is the structured delivery address supplied with home delivery.
type AddressDto struct {
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequestDto) (*order.OrderDto, error) {
	charge, ok := req.DeliveryMethod.Charge()
	if !ok {
		return nil, ErrInvalidDeliveryMethod
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if req.DeliveryMethod == DeliveryHome && req.Address == nil {
		return nil, ErrAddressRequired
	}

	snapshot, err := s.carts.CheckoutView(ctx, userID)
	if err != nil {
		// A session that never touched its cart has nothing to check out.
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if snapshot.State == cart.StateClosed {
		return nil, cart.ErrCartClosed
	}
	if len(snapshot.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := snapshot.Subtotal()
	o := order.Order{
		UserID:         userID,
		Status:         order.StatusPending,
		PaymentMethod:  string(req.PaymentMethod),
		DeliveryMethod: string(req.DeliveryMethod),
		DeliveryCharge: charge,
		Address:        toAddress(req.Address),
		Subtotal:       subtotal,
		Total:          subtotal + charge,
	}
	items := make([]order.OrderItem, 0, len(snapshot.Items))
	for _, li := range snapshot.Items {
		items = append(items, order.OrderItem{
			ProductID:    li.ProductID,
			Name:         li.Name,
			Unit:         li.Unit,
			Seller:       li.Seller,
			Category:     li.Category,
			Quantity:     li.Quantity,
			PricePerUnit: li.PricePerUnit,
			Amount:       li.Amount(),
		})
	}

	created, err := s.orders.Create(ctx, o, items)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "order placed", "order_id", created.ID, "user_id", userID, "total", created.Total)

	// The order is committed at this point; publish and close failures are
	// logged but do not fail the checkout.
	s.publishPlaced(ctx, created)
	if err := s.carts.CloseCart(ctx, userID); err != nil {
		s.log.ErrorContext(ctx, "failed to close cart after checkout", "order_id", created.ID, "user_id", userID, "error", err)
	}
	return created, nil
}

func (s *Service) publishPlaced(ctx context.Context, o *order.OrderDto) {
	if s.publisher == nil {
		return
	}
	createdAt, _ := time.Parse(time.RFC3339, o.CreatedAt)
	event := events.OrderPlacedEvent{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Total:          o.Total,
		DeliveryMethod: o.DeliveryMethod,
		PaymentMethod:  o.PaymentMethod,
		CreatedAt:      createdAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "failed to publish order placed event", "order_id", o.ID, "error", err)
	}
}

func toAddress(dto *AddressDto) *order.Address {
	if dto == nil {
		return nil
	}
	return &order.Address{
		Name:    dto.Name,
		Street:  dto.Street,
		City:    dto.City,
		State:   dto.State,
		Zip:     dto.Zip,
		Contact: dto.Contact,
	}
}
