package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// OrderService defines the business operations over order history.
type OrderService interface {
	// GetByID returns the order with its items. The requesting user must own
	// the order, otherwise ErrAccessDenied is returned.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*OrderDto, error)
	// GetOrdersByUserID returns the user's orders, newest first.
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID, offset, limit int32) ([]OrderDto, error)
	// Create persists a new order with its items.
	Create(ctx context.Context, o Order, items []OrderItem) (*OrderDto, error)
	// UpdateStatus transitions the order to the given status using
	// optimistic locking on the supplied version.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int32) (*OrderDto, error)
}

// Service provides order business logic operations.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates a new instance of Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, log: logger}
}

func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (*OrderDto, error) {
	o, items, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		s.log.WarnContext(ctx, "order access denied", "order_id", id, "user_id", userID)
		return nil, ErrAccessDenied
	}
	dto := toDto(*o, items)
	return &dto, nil
}

func (s *Service) GetOrdersByUserID(ctx context.Context, userID uuid.UUID, offset, limit int32) ([]OrderDto, error) {
	orders, err := s.store.FindOrdersByUserID(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDto, 0, len(orders))
	for _, o := range orders {
		// The list view omits items; they are fetched per order on demand.
		dtos = append(dtos, toDto(o, nil))
	}
	return dtos, nil
}

func (s *Service) Create(ctx context.Context, o Order, items []OrderItem) (*OrderDto, error) {
	created, createdItems, err := s.store.CreateOrder(ctx, o, items)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create order", "user_id", o.UserID, "error", err)
		return nil, err
	}
	dto := toDto(*created, createdItems)
	return &dto, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, version int32) (*OrderDto, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	updated, err := s.store.UpdateStatus(ctx, id, status, version)
	if err != nil {
		return nil, err
	}
	dto := toDto(*updated, nil)
	return &dto, nil
}

// OrderDto represents order data transferred over the REST API.
type OrderDto struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Status         Status         `json:"status"`
	PaymentMethod  string         `json:"payment_method"`
	DeliveryMethod string         `json:"delivery_method"`
	DeliveryCharge int64          `json:"delivery_charge"`
	Address        *Address       `json:"address,omitempty"`
	Subtotal       int64          `json:"subtotal"`
	Total          int64          `json:"total"`
	Version        int32          `json:"version"`
	CreatedAt      string         `json:"created_at"`
	Items          []OrderItemDto `json:"items,omitempty"`
}

// OrderItemDto represents a single order line over the REST API.
type OrderItemDto struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Seller       string    `json:"seller"`
	Category     string    `json:"category"`
	Quantity     int32     `json:"quantity"`
	PricePerUnit int64     `json:"price_per_unit"`
	Amount       int64     `json:"amount"`
}

// StatusUpdateDto carries a status transition request.
type StatusUpdateDto struct {
	Status  Status `json:"status" validate:"required"`
	Version int32  `json:"version" validate:"gte=1"`
}

func toDto(o Order, items []OrderItem) OrderDto {
	dto := OrderDto{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		DeliveryCharge: o.DeliveryCharge,
		Address:        o.Address,
		Subtotal:       o.Subtotal,
		Total:          o.Total,
		Version:        o.Version,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if items != nil {
		dto.Items = make([]OrderItemDto, 0, len(items))
		for _, item := range items {
			dto.Items = append(dto.Items, OrderItemDto{
				ProductID:    item.ProductID,
				Name:         item.Name,
				Unit:         item.Unit,
				Seller:       item.Seller,
				Category:     item.Category,
				Quantity:     item.Quantity,
				PricePerUnit: item.PricePerUnit,
				Amount:       item.Amount,
			})
		}
	}
	return dto
}
