package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finmarkets/marketstore/internal/application"
	"github.com/finmarkets/marketstore/internal/infrastructure/config"
	"github.com/finmarkets/marketstore/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/finmarkets/marketstore/internal/interfaces/http"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeDatabase sets up the database connection and runs migrations
func initializeDatabase(cfg *config.Config) (*sqldb.DB, error) {
	var db *sql.DB
	var dialect sqldb.Dialect
	var err error

	switch cfg.DBDriver {
	case "postgres":
		db, err = sql.Open("pgx", cfg.DBDSN)
		dialect = &sqldb.PostgresDialect{}
	case "sqlite":
		db, err = sql.Open("sqlite", cfg.DBDSN)
		dialect = &sqldb.SQLiteDialect{}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := sqldb.New(db, dialect)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wrapper.Dialect.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return wrapper, nil
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, ingest *application.IngestService, query *application.AnalyticsService) *http.Server {
	router := gin.Default()
	handler := httpHandler.NewHandler(ingest, query)
	httpHandler.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

// run contains the main application logic without os.Exit calls
// This makes it testeable
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.LogLevel)

	db, err := initializeDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := sqldb.NewStore(db, cfg.UpsertPolicy)
	ingestService := application.NewIngestService(
		store.Assets, store.Prices, store.Indices,
		store.Volatility, store.Indicators, store.Sectors,
	)
	analyticsService := application.NewAnalyticsService(
		store.Assets, store.Prices, store.Indices,
		store.Volatility, store.Indicators, store.Sectors, store.Analytics,
	)

	server := buildServer(cfg, ingestService, analyticsService)

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort,
			"driver", cfg.DBDriver, "upsert_policy", cfg.UpsertPolicy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
