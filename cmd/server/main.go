package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clubpulse/internal/config"
	"github.com/clubpulse/internal/handler"
	"github.com/clubpulse/internal/jsonstore"
	"github.com/clubpulse/internal/questions"
	"github.com/clubpulse/internal/service"
	"github.com/clubpulse/internal/summary"
	"github.com/clubpulse/internal/websocket"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present (AWS credentials, config overrides)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the JSON collection store
	store := jsonstore.NewStore(cfg.Storage.DataDir)
	repo := jsonstore.NewRepository(store)
	logger.Info("collection store initialized", "data_dir", cfg.Storage.DataDir)

	// Load the feedback question catalog; the four-question invariant is
	// advisory, so a broken catalog only warns here
	catalog := questions.NewCatalog(repo)
	if !catalog.Validate() {
		logger.Warn("practice question catalog failed validation; expected four questions ordered 1-4")
	}

	// Initialize the Bedrock summary generator
	generator, err := summary.NewGenerator(ctx, cfg.Bedrock, logger)
	if err != nil {
		logger.Warn("failed to initialize summary generator, summaries will be degraded", "error", err)
		disabled := cfg.Bedrock
		disabled.Enabled = false
		generator, _ = summary.NewGenerator(ctx, disabled, logger)
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket hub initialized")

	// Initialize services
	clubService := service.NewClubService(repo, catalog, generator, logger)
	clubService.SetHub(wsHub)

	// Initialize HTTP handler with WebSocket hub
	httpHandler := handler.NewHandler(clubService, wsHub, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpHandler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop WebSocket hub
	wsHub.Stop()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}

	logger.Info("server stopped")
}
