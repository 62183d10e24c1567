package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/ai-visibility/internal/completion"
	"github.com/brandpulse/ai-visibility/internal/config"
	"github.com/brandpulse/ai-visibility/internal/monitoring"
	"github.com/brandpulse/ai-visibility/internal/notifications"
	"github.com/brandpulse/ai-visibility/internal/scheduler"
	"github.com/brandpulse/ai-visibility/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting AI Visibility Engine")

	ctx := context.Background()

	// Initialize completion backends
	completer, err := completion.NewDefaultRouter(ctx, cfg.LLMGatewayURL, cfg.LLMGatewayAPIKey, cfg.GeminiAPIKey)
	if err != nil {
		logrus.Fatalf("Failed to initialize completion backends: %v", err)
	}

	// Initialize storage
	store, err := newStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize notification and monitoring services
	notificationService := notifications.NewService(cfg)
	monitoringService := monitoring.NewService(cfg, store, notificationService, completer)

	// Initialize and start scheduler
	schedulerService := scheduler.NewService(cfg, monitoringService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Set up HTTP server for checks, estimates and health
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      newRouter(monitoringService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a synchronous check waits on every platform
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newStorage keeps history in Azure Blob Storage when an account is
// configured, otherwise in process memory
func newStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount == "" {
		logrus.Warn("AZURE_STORAGE_ACCOUNT is not set; check history is kept in memory")
		return storage.NewMemoryStorage(), nil
	}
	return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
}
