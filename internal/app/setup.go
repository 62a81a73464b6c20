// Package app contains the application setup for the marketplace service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/harvestlink/marketplace/internal/analytics"
	analyticsrest "github.com/harvestlink/marketplace/internal/analytics/rest"
	"github.com/harvestlink/marketplace/internal/cart"
	cartrest "github.com/harvestlink/marketplace/internal/cart/rest"
	"github.com/harvestlink/marketplace/internal/catalog"
	catalogrest "github.com/harvestlink/marketplace/internal/catalog/rest"
	"github.com/harvestlink/marketplace/internal/checkout"
	checkoutrest "github.com/harvestlink/marketplace/internal/checkout/rest"
	"github.com/harvestlink/marketplace/internal/config"
	"github.com/harvestlink/marketplace/internal/order"
	orderrest "github.com/harvestlink/marketplace/internal/order/rest"
	"github.com/harvestlink/marketplace/pkg/messaging"
	"github.com/harvestlink/marketplace/pkg/server"

	"github.com/go-chi/chi/v5"
)

// Stores groups the persistence backends the services are built on.
type Stores struct {
	Catalog catalog.Store
	Order   order.Store
	Cart    cart.Store
}

type Dependencies struct {
	CartService      cart.CartService
	CatalogService   catalog.CatalogService
	OrderService     order.OrderService
	CheckoutService  checkout.CheckoutService
	AnalyticsService analytics.AnalyticsService
	Logger           *slog.Logger
}

// SetupDependencies wires the domain services over the given stores.
// The publisher may be nil when messaging is disabled.
func SetupDependencies(stores Stores, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	catalogService := catalog.NewService(stores.Catalog)
	cartService := cart.NewService(stores.Cart, newProductSource(stores.Catalog), cfg.Cart.Step)
	orderService := order.NewService(stores.Order, logger)
	checkoutService := checkout.NewService(cartService, orderService, publisher, logger)
	analyticsService := analytics.NewService(stores.Order, logger)

	return &Dependencies{
		CartService:      cartService,
		CatalogService:   catalogService,
		OrderService:     orderService,
		CheckoutService:  checkoutService,
		AnalyticsService: analyticsService,
		Logger:           logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the marketplace application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the marketplace application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogrest.NewHandler(deps.CatalogService, deps.Logger).RegisterRoutes(mux)
	cartrest.NewHandler(deps.CartService, deps.Logger).RegisterRoutes(mux)
	checkoutrest.NewHandler(deps.CheckoutService, deps.Logger).RegisterRoutes(mux)
	orderrest.NewHandler(deps.OrderService, deps.Logger).RegisterRoutes(mux)
	analyticsrest.NewHandler(deps.AnalyticsService, deps.Logger).RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the marketplace application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
