// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/harvestlink/marketplace/internal/catalog"
	"github.com/harvestlink/marketplace/pkg/web"
)

type Handler struct {
	service  catalog.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided service.
func NewHandler(service catalog.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindProduct)
			r.Put("/", h.UpdateProduct)
		})
	})
	r.Route("/api/v1/farmers", func(r chi.Router) {
		r.Get("/", h.ListFarmers)
		r.Get("/{id}", h.FindFarmer)
	})
}

// FindProduct retrieves a product by its ID.
func (h *Handler) FindProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// ListProducts retrieves products matching the query-string filter.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	offset, ok := web.ParseValidateGte(r, w, mLogger, "offset", 0)
	if !ok {
		return
	}
	filter, ok := h.parseFilter(w, r, mLogger)
	if !ok {
		return
	}
	filter.Offset = offset
	filter.Limit = limit

	mLogger.DebugContext(r.Context(), "Received request to list products", "filter", fmt.Sprintf("%+v", filter))
	list, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// parseFilter extracts the optional filter dimensions from the query string.
func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (catalog.ProductFilter, bool) {
	q := r.URL.Query()
	filter := catalog.ProductFilter{
		Query:       q.Get("q"),
		Category:    q.Get("category"),
		Location:    q.Get("location"),
		InStockOnly: q.Get("in_stock") == "true",
	}

	for key, dst := range map[string]*int64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		if raw := q.Get(key); raw != "" {
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || value < 0 {
				web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, raw))
				return filter, false
			}
			*dst = value
		}
	}

	switch sort := q.Get("sort"); sort {
	case "", catalog.SortPriceAsc, catalog.SortPriceDesc:
		filter.Sort = sort
	default:
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid sort order: %s", sort))
		return filter, false
	}
	return filter, true
}

// CreateProduct handles the creation of a new catalog product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto catalog.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	created, err := h.service.CreateProduct(r.Context(), dto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", slog.String("ID", created.ID.String()))
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// UpdateProduct handles modification of an existing catalog product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto catalog.ProductUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Set the ID in the product update DTO.
	dto.ID = id
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), dto)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		} else if errors.Is(err, catalog.ErrOptimisticLock) {
			mLogger.WarnContext(r.Context(), "Optimistic lock error during product update", "ID", id)
			web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Product with ID %s has been modified by another user", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", slog.String("ID", updated.ID.String()))
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// FindFarmer retrieves a farmer profile by its ID.
func (h *Handler) FindFarmer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindFarmer(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrFarmerNotFound) {
			mLogger.WarnContext(r.Context(), "Farmer not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Farmer with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving farmer", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve farmer with ID %s", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// ListFarmers retrieves farmer profiles with pagination.
func (h *Handler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	limit, ok := web.ParseValidateGt(r, w, mLogger, "limit", 0)
	if !ok {
		return
	}
	offset, ok := web.ParseValidateGte(r, w, mLogger, "offset", 0)
	if !ok {
		return
	}

	list, err := h.service.ListFarmers(r.Context(), offset, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving farmer list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch farmers")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// validateStruct runs struct validation and writes the error response on failure.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			// If the error is a validation error, we can extract field-specific errors.
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "max", etc.
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
