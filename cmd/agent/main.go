// Package main is the entry point for the Finance Tracker local agent.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/client/config"
	"github.com/finance-tracker/client/internal/infra/db"
	"github.com/finance-tracker/client/internal/infra/dependency"
	"github.com/finance-tracker/client/internal/integration/persistence"
	"github.com/finance-tracker/client/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Without an explicit key, generate one on first run and reuse it after
	if cfg.Secure.Key == "" {
		key, err := persistence.LoadOrCreateKey(cfg.Secure.KeyPath)
		if err != nil {
			slog.Error("Failed to prepare protected-tier key", "error", err)
			os.Exit(1)
		}
		cfg.Secure.Key = key
	}

	slog.Info("Starting Finance Tracker agent",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"remote", cfg.Remote.BaseURL,
	)

	// Open the protected tier database
	database, err := db.NewSqliteConnection(&cfg.Secure)
	if err != nil {
		slog.Error("Failed to open protected store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close protected store", "error", err)
		}
	}()

	if err := database.AutoMigrate(&model.SecureItemModel{}); err != nil {
		slog.Error("Failed to run protected store migrations", "error", err)
		os.Exit(1)
	}

	// Connect the general tier store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close general store client", "error", err)
		}
	}()

	// Wire dependencies
	injector, err := dependency.NewInjector(cfg, database, redisClient)
	if err != nil {
		slog.Error("Failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the session token when provided out of band
	if cfg.Secure.SessionToken != "" {
		if err := injector.Tokens.SaveToken(ctx, cfg.Secure.SessionToken); err != nil {
			slog.Error("Failed to store session token", "error", err)
		}
	}

	// Hydrate local state and run the first sync cycle
	if err := injector.Engine.Startup(ctx); err != nil {
		slog.Error("Failed to hydrate local state", "error", err)
		os.Exit(1)
	}
	if err := injector.Agenda.Load(ctx); err != nil {
		slog.Error("Failed to hydrate agenda", "error", err)
		os.Exit(1)
	}

	// Start the periodic sync loop
	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		injector.Engine.Run(ctx)
	}()

	// Setup router
	engine := injector.Router.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Agent listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down agent...")

	// Stop the sync loop before the server so no cycle races the teardown
	cancel()
	<-syncDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Agent exited properly")
}
