package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonfeed/anonfeed/internal/router"
	"github.com/anonfeed/anonfeed/pkg/config"
	"github.com/anonfeed/anonfeed/pkg/logger"
	"github.com/anonfeed/anonfeed/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Get().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db, cfg); err != nil {
		logger.Get().Fatal("Failed to set up routes", zap.Error(err))
	}

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()
	logger.Get().Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt, then drain in-flight requests before closing
	// the database connection.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Get().Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Get().Error("Graceful shutdown failed", zap.Error(err))
	}
	if err := db.CloseDB(); err != nil {
		logger.Get().Error("Failed to close MongoDB connection", zap.Error(err))
	}
}
