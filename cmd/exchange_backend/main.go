package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/exchange_sync_app/internal/adapters/koreaexim"
	portsrepo "github.com/SscSPs/exchange_sync_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_sync_app/internal/core/services"
	"github.com/SscSPs/exchange_sync_app/internal/handlers"
	"github.com/SscSPs/exchange_sync_app/internal/middleware"
	"github.com/SscSPs/exchange_sync_app/internal/platform/config"
	"github.com/SscSPs/exchange_sync_app/internal/platform/scheduler"
	"github.com/SscSPs/exchange_sync_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/exchange_sync_app/internal/repositories/postgrest"
	"github.com/SscSPs/exchange_sync_app/pkg/database"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// @title Exchange Sync Backend API
// @version 1.0
// @description Syncs Korea Eximbank exchange rates into storage and serves them to web and chat clients.

// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server exited")
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(ctx, postgrest.LoadEnvConfigOverlay)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repos, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	source := koreaexim.NewClient(koreaexim.Config{
		BaseURL:            cfg.ExchangeAPI.BaseURL,
		AuthKey:            cfg.ExchangeAPI.AuthKey,
		Timeout:            cfg.UpstreamTimeout,
		InsecureSkipVerify: cfg.ExchangeAPI.InsecureSkipVerify,
	})
	if err := source.Validate(); err != nil {
		// Sync runs report this as a failed precondition; reads keep working.
		logger.Warn("Exchange rate API is not usable", slog.String("error", err.Error()))
	}

	serviceContainer := services.NewServiceContainer(cfg.Location, repos, source)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting",
			slog.String("port", cfg.Port),
			slog.String("storage_backend", cfg.StorageBackend),
			slog.String("timezone", cfg.Timezone),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler, cfg.Location, serviceContainer.RateSync, logger)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error { return sched.Run(gctx) })
	} else {
		logger.Info("Scheduler disabled")
	}

	return g.Wait()
}

// openStorage connects the configured storage backend and returns its repositories
// together with a function releasing the connection.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePgSQL:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.UpstreamTimeout, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}

		logger.Info("Running database migrations...")
		if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}

		repos := pgsql.NewRepositoryProvider(dbPool, cfg.ExchangeRatesTable, cfg.ReservationsTable)
		return repos, func() { database.ClosePgxPool(dbPool, logger) }, nil

	default:
		client := postgrest.NewClient(cfg.PostgRESTURL, cfg.UpstreamTimeout)
		if err := client.Ping(ctx); err != nil {
			// Storage may come up later; /health reports it in the meantime.
			logger.Warn("PostgREST is not reachable", slog.String("url", cfg.PostgRESTURL), slog.String("error", err.Error()))
		}
		repos := postgrest.NewRepositoryProvider(client, cfg.ExchangeRatesTable, cfg.ReservationsTable)
		return repos, func() {}, nil
	}
}
