// Package rest provides the HTTP handler for checkout.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/checkout"
	"github.com/harvestlink/marketplace/pkg/web"
)

type Handler struct {
	service  checkout.CheckoutService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the checkout API with the provided service.
func NewHandler(service checkout.CheckoutService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP route for checkout.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(web.AuthMiddleware)
		r.Post("/api/v1/checkout", h.Checkout)
	})
}

// Checkout places an order from the session cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	var dto checkout.CheckoutRequestDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Validation failed: %v", err))
		return
	}

	mLogger.DebugContext(r.Context(), "Received checkout request", "user_id", userID, "delivery", dto.DeliveryMethod, "payment", dto.PaymentMethod)
	created, err := h.service.Checkout(r.Context(), userID, dto)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidDeliveryMethod),
			errors.Is(err, checkout.ErrInvalidPaymentMethod),
			errors.Is(err, checkout.ErrAddressRequired):
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrEmptyCart):
			web.RespondError(w, mLogger, http.StatusUnprocessableEntity, "Cannot check out an empty cart")
		case errors.Is(err, cart.ErrCartClosed):
			web.RespondError(w, mLogger, http.StatusConflict, "Cart is already checked out")
		default:
			mLogger.ErrorContext(r.Context(), "Checkout failed", "user_id", userID, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to place order")
		}
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
