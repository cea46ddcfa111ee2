package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/SscSPs/money_ledger/internal/adapters/filestore"
	portsrepo "github.com/SscSPs/money_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/core/services"
	"github.com/SscSPs/money_ledger/internal/handlers"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/SscSPs/money_ledger/internal/platform/config"
	"github.com/SscSPs/money_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/money_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Money Ledger API
// @version 1.0
// @description Personal finance ledger: accounts, categories, transactions and their movements.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	container := services.NewServiceContainer(repos)
	if cfg.Autoload {
		if err := loadLedger(ctx, container.Snapshot, logger); err != nil {
			return err
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.RateLimit != "" {
		rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return err
		}
		r.Use(middleware.RateLimit(rateLimiter))
	}

	var ledgerMu sync.RWMutex
	if err := handlers.RegisterRoutes(r, cfg, container, &ledgerMu); err != nil {
		return err
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
	}

	if cfg.Autosave {
		autosave(shutdownCtx, container, &ledgerMu, logger)
	}
	logger.Info("Server stopped")
	return nil
}

// setupStorage builds the repository provider for the configured backend.
func setupStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePgSQL:
		logger.Info("Running database migrations")
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	default:
		logger.Info("Using text file storage", slog.String("dir", cfg.DataDir))
		store := filestore.NewTxtStore(cfg.DataDir)
		return portsrepo.RepositoryProvider{SnapshotRepo: store}, func() {}, nil
	}
}

// loadLedger restores the stored ledger. An empty store means a first start;
// any other failure stops startup so that autosave never writes an empty
// ledger over data that merely failed to load.
func loadLedger(ctx context.Context, snapshot portssvc.SnapshotSvc, logger *slog.Logger) error {
	err := snapshot.Import(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		logger.Info("No stored ledger found, starting with an empty ledger")
		return nil
	default:
		return fmt.Errorf("autoload: %w", err)
	}
}

func autosave(ctx context.Context, container *portssvc.ServiceContainer, mu *sync.RWMutex, logger *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if err := container.Snapshot.Export(ctx); err != nil {
		logger.Error("Autosave failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("Ledger saved on shutdown")
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(cfg.CORSAllowedOrigins) == 0 || slices.Contains(cfg.CORSAllowedOrigins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
