// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/smartengage/smartengage-go/internal/application/container"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/infrastructure/persistence/database"
	"github.com/smartengage/smartengage-go/internal/presentation/http/server"
	"github.com/smartengage/smartengage-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	start := time.Now().UTC()
	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.JSONFormat = config.LogJSON
	loggerConfig.DefaultLevel = logging.ParseLevel(config.LogLevel)
	logger := logging.NewChanneledLogger(loggerConfig)
	tracker := performance.NewTracker(performance.DefaultTrackerConfig())
	logger.Startup().Info("Starting SmartEngage popup engine")

	// Database connection and schema
	logger.Startup().Info("Connecting to database",
		"driver", config.DatabaseDriver, "url", config.DatabaseURL)
	db, err := database.NewConnectionWithLogger(config.DatabaseDriver, config.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.ApplySchema(); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}
	logger.Startup().Info("Database ready")

	// Dependency injection container
	appContainer := container.NewContainer(db, logger, tracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Background retention purge
	go appContainer.RetentionWorker.Start(ctx)

	// HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start), "port", config.Port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	shutdownStart := time.Now()

	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))
	return nil
}
