// Package main runs the harvestlink marketplace HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/harvestlink/marketplace/internal/app"
	"github.com/harvestlink/marketplace/internal/cart"
	"github.com/harvestlink/marketplace/internal/catalog"
	"github.com/harvestlink/marketplace/internal/config"
	"github.com/harvestlink/marketplace/internal/order"
	"github.com/harvestlink/marketplace/pkg/bootstrap"
	"github.com/harvestlink/marketplace/pkg/config/configloader"
	"github.com/harvestlink/marketplace/pkg/messaging"
	"github.com/harvestlink/marketplace/pkg/nats"
	"github.com/harvestlink/marketplace/pkg/server"
	"golang.org/x/sync/errgroup"
)

const serviceName = "marketplace"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, sets up the stores, and starts the HTTP, gRPC and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	stores, cleanup, err := setupStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	publisher, err := setupPublisher(cfg)
	if err != nil {
		return err
	}

	deps := app.SetupDependencies(stores, publisher, cfg, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer := server.NewGRPCServer(cfg.GRPC.ReflectionEnabled, server.WithHealth())
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the gRPC server (health and reflection only)
	g.Go(func() error {
		grpcAddr := ":" + cfg.GRPC.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	// gracefully shutdown gRPC server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gRPC server...")
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupStores builds the persistence backends selected by the configuration.
// The returned cleanup releases any pooled connections.
func setupStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app.Stores, func(), error) {
	var stores app.Stores
	cleanup := func() {}

	switch cfg.Store.Backend {
	case "postgres":
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return stores, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		stores.Catalog = catalog.NewPgStore(dbPool)
		stores.Order = order.NewPgStore(dbPool)
		cleanup = dbPool.Close
	default:
		stores.Catalog = catalog.NewMemoryStore()
		stores.Order = order.NewMemoryStore()
		if cfg.Store.Seed {
			if err := catalog.SeedDemo(ctx, stores.Catalog); err != nil {
				return stores, nil, fmt.Errorf("failed to seed demo catalog: %w", err)
			}
			logger.Info("Demo catalog seeded")
		}
	}

	if cfg.Redis.Enabled {
		client, err := bootstrap.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Timeout)
		if err != nil {
			cleanup()
			return stores, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		logger.Info("Successfully connected to redis!")
		stores.Cart = cart.NewRedisStore(client, cfg.Redis.TTL)
		dbCleanup := cleanup
		cleanup = func() {
			_ = client.Close()
			dbCleanup()
		}
	} else {
		stores.Cart = cart.NewMemoryStore()
	}
	return stores, cleanup, nil
}

// setupPublisher connects to NATS JetStream when messaging is enabled.
// A nil publisher disables event emission.
func setupPublisher(cfg *config.Config) (messaging.Publisher, error) {
	if !cfg.Nats.Enabled {
		return nil, nil
	}
	natsConn, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS connection: %w", err)
	}
	js, err := nats.NewJetStreamContext(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}
	return nats.NewNatsPublisher(js), nil
}
