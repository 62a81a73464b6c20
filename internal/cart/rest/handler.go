// Package rest provides HTTP handlers for cart operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/catalog"
	"github.com/harvestlink/marketplace/pkg/web"
)

type Handler struct {
	service  cart.CartService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the cart API with the provided service.
func NewHandler(service cart.CartService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the cart.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(web.AuthMiddleware)
		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Reset)

			r.Post("/items", h.AddItem)
			r.Route("/items/{id}", func(r chi.Router) {
				r.Post("/increase", h.IncreaseQuantity)
				r.Post("/decrease", h.DecreaseQuantity)
				r.Delete("/", h.RemoveItem)
			})
		})
	})
}

// AddItemDto represents the request body for adding a product to the cart.
type AddItemDto struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int32     `json:"quantity" validate:"min=0"`
}

// Get returns the current cart for the buyer session.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	current, err := h.service.Get(r.Context(), userID)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, current)
}

// AddItem adds a product to the session cart, merging with an existing line item.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}
	var dto AddItemDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Quantity defaults to 1 when omitted.
	if dto.Quantity == 0 {
		dto.Quantity = 1
	}
	if err := h.validate.Struct(dto); err != nil {
		mLogger.WarnContext(r.Context(), "Invalid add-item request", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to add item to cart", "product_id", dto.ProductID, "quantity", dto.Quantity)
	updated, err := h.service.AddItem(r.Context(), userID, dto.ProductID, dto.Quantity)
	if err != nil {
		h.respondCartError(w, r, mLogger, dto.ProductID, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Item added to cart", slog.String("product_id", dto.ProductID.String()))
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// IncreaseQuantity raises a line item's quantity by the configured step.
func (h *Handler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.service.IncreaseQuantity)
}

// DecreaseQuantity lowers a line item's quantity by the configured step.
func (h *Handler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.service.DecreaseQuantity)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, productID uuid.UUID) (*cart.CartDto, error)) {
	mLogger := h.loggerWithReqID(r)
	productID, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	updated, err := op(r.Context(), userID, productID)
	if err != nil {
		h.respondCartError(w, r, mLogger, productID, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// RemoveItem deletes a line item from the session cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	productID, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	updated, err := h.service.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		h.respondCartError(w, r, mLogger, productID, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// Reset destroys the session cart.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.service.Reset(r.Context(), userID); err != nil {
		mLogger.ErrorContext(r.Context(), "Error resetting cart", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to reset cart")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusNoContent, nil)
}

// respondCartError maps cart domain errors to HTTP statuses.
func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, productID uuid.UUID, err error) {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		mLogger.WarnContext(r.Context(), "Product out of stock", "product_id", productID)
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Product %s is out of stock", productID))
	case errors.Is(err, cart.ErrCartClosed):
		mLogger.WarnContext(r.Context(), "Cart already closed", "product_id", productID)
		web.RespondError(w, mLogger, http.StatusConflict, "Cart is closed; checkout has already completed")
	case errors.Is(err, cart.ErrInvalidQuantity):
		web.RespondError(w, mLogger, http.StatusBadRequest, "Quantity must be a positive integer")
	case errors.Is(err, catalog.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "product_id", productID)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", productID))
	default:
		mLogger.ErrorContext(r.Context(), "Error mutating cart", "product_id", productID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update cart")
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
