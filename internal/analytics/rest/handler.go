// Package rest provides HTTP handlers for analytics reports.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/harvestlink/marketplace/internal/analytics"
	"github.com/harvestlink/marketplace/pkg/web"
)

type Handler struct {
	service analytics.AnalyticsService
	logger  *slog.Logger
}

// NewHandler creates a new instance of the analytics API with the provided service.
func NewHandler(service analytics.AnalyticsService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for analytics.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(web.AuthMiddleware)
		r.Route("/api/v1/analytics", func(r chi.Router) {
			r.Get("/buyer", h.BuyerReport)
			r.Get("/farmer/{seller}", h.FarmerReport)
		})
	})
}

// BuyerReport returns the authenticated user's purchase summary.
func (h *Handler) BuyerReport(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	userID, ok := web.GetUserID(w, r, mLogger)
	if !ok {
		return
	}

	report, err := h.service.BuyerReport(r.Context(), userID)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building buyer report", "user_id", userID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build buyer report")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, report)
}

// FarmerReport returns the monthly sales series for a seller.
func (h *Handler) FarmerReport(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	seller := r.PathValue("seller")
	if seller == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Seller name is required")
		return
	}

	report, err := h.service.FarmerReport(r.Context(), seller)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error building farmer report", "seller", seller, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to build farmer report")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, report)
}

func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
