package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/port/persistence"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/usecase/atomic"
	"github.com/bookkeeper-app/bookkeeper/internal/domain/usecase/ledger"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/api/handler"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/api/routes"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/database"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/logger"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/mongodb"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/repository"
	timeProvider "github.com/bookkeeper-app/bookkeeper/internal/infrastructure/adapter/time"
	"github.com/bookkeeper-app/bookkeeper/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	store, companies, entries, cleanup, err := buildStore(cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to initialize backing store", map[string]any{
			"backend": cfg.Store.Backend,
			"error":   err.Error(),
		})
		os.Exit(1)
	}
	defer cleanup()

	coordinator := atomic.NewCoordinator(store, appLogger)

	ledgerService := ledger.NewService(coordinator, companies, entries, appLogger, tp).
		WithTxOptions(persistence.TxOptions{
			MaxRetries: cfg.Transaction.MaxRetries,
			Timeout:    cfg.Transaction.Timeout,
			Isolation:  persistence.IsolationLevel(cfg.Transaction.Isolation),
		})

	companyHandler := handler.NewCompanyHandler(ledgerService, appLogger)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, companyHandler, ledgerHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     cfg.Environment,
			"backend": cfg.Store.Backend,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// buildStore wires the configured backend and returns the transaction store,
// the repositories bound to it, and a cleanup function for shutdown.
func buildStore(
	cfg *config.Config,
	appLogger coreport.Logger,
	tp coreport.TimeProvider,
) (persistence.TxStore, persistence.CompanyRepository, persistence.LedgerEntryRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		dbConfig := &database.Config{
			Host:            cfg.Database.Host,
			Port:            parsePort(cfg.Database.Port),
			Username:        cfg.Database.Username,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Database,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			QueryTimeout:    persistence.DefaultTimeout,
			LogLevel:        cfg.Logger.Level,
		}

		conn, err := database.NewConnection(dbConfig, appLogger)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		if err := database.Migrate(conn.DB, appLogger); err != nil {
			_ = conn.Close()
			return nil, nil, nil, nil, err
		}

		store := database.NewStore(conn.DB, appLogger)
		companies := repository.NewCompanyRepository(conn.DB, tp, appLogger)
		entries := repository.NewLedgerEntryRepository(conn.DB, appLogger)
		cleanup := func() { _ = conn.Close() }
		return store, companies, entries, cleanup, nil

	case config.BackendMongo:
		mongoConfig := &mongodb.Config{
			URI:             cfg.Mongo.URI,
			Database:        cfg.Mongo.Database,
			MaxPoolSize:     cfg.Mongo.MaxPoolSize,
			MinPoolSize:     cfg.Mongo.MinPoolSize,
			MaxConnIdleTime: cfg.Mongo.MaxConnIdleTime,
			ConnectTimeout:  cfg.Mongo.ConnectTimeout,
		}

		ctx := context.Background()
		conn, err := mongodb.NewConnection(ctx, mongoConfig, appLogger)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		entries := mongodb.NewLedgerEntryRepository(conn.Client, mongoConfig.Database, appLogger)
		if err := entries.EnsureIndexes(ctx); err != nil {
			_ = conn.Close(ctx)
			return nil, nil, nil, nil, err
		}

		store := mongodb.NewStore(conn.Client, appLogger)
		companies := mongodb.NewCompanyRepository(conn.Client, mongoConfig.Database, tp, appLogger)
		cleanup := func() { _ = conn.Close(context.Background()) }
		return store, companies, entries, cleanup, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}

// parsePort converts the configured port string to an int, falling back to
// the postgres default
func parsePort(port string) int {
	value, err := strconv.Atoi(port)
	if err != nil || value <= 0 {
		return 5432
	}
	return value
}
