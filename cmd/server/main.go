package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/clinicatlas/places-sync/internal/api"
	"github.com/clinicatlas/places-sync/internal/config"
	"github.com/clinicatlas/places-sync/internal/db"
	"github.com/clinicatlas/places-sync/internal/placesapi"
	"github.com/clinicatlas/places-sync/internal/ratelimit"
	"github.com/clinicatlas/places-sync/internal/sync"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate minimum required config
	if cfg.DBConnectionString == "" || cfg.Places.APIKey == "" {
		logger.Fatal("Missing required configuration (DB_CONNECTION_STRING and GOOGLE_PLACES_API_KEY must be set)")
	}

	// Initialize database
	store, err := db.NewPostgresStore(cfg.DBConnectionString)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations with retry logic
	if err := retry(3, 5*time.Second, func() error {
		return store.Migrate()
	}); err != nil {
		logger.Fatalf("Failed to run migrations after retries: %v", err)
	}

	// Initialize services
	limiter := ratelimit.New(cfg.Places.RateLimit.RequestsPerSecond, cfg.Places.RateLimit.MaxConcurrent)
	client := placesapi.NewClient(cfg.Places, logger)
	syncer := sync.NewSyncer(store, client, limiter, cfg.Sync, logger)
	bulk := sync.NewBulkSyncer(store, syncer, cfg.Sync, logger)
	scopes := sync.NewScopeResolver(store)
	executor := sync.NewExecutor(store, bulk, scopes, cfg.Sync, logger)

	handler := api.NewHandler(store, syncer, bulk, scopes, executor, cfg.Places, cfg.Sync, logger)
	router := api.SetupRouter(handler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Periodically sweep for due schedules
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runScheduleLoop(ctx, executor, cfg.ScheduleInterval, logger)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}

func runScheduleLoop(ctx context.Context, executor *sync.Executor, interval time.Duration, logger *logrus.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ran, err := executor.RunDueSchedules(ctx)
			if err != nil {
				logger.WithError(err).Error("Schedule sweep failed")
				continue
			}
			if ran > 0 {
				logger.WithField("schedules_run", ran).Info("Schedule sweep finished")
			}
		}
	}
}

func retry(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(delay)
	}
	return err
}
