package router

import (
	"github.com/anonfeed/anonfeed/internal/handlers"
	"github.com/anonfeed/anonfeed/internal/middleware"
	"github.com/anonfeed/anonfeed/internal/repositories"
	"github.com/anonfeed/anonfeed/internal/services"
	"github.com/anonfeed/anonfeed/pkg/config"
	"github.com/anonfeed/anonfeed/pkg/images"
	"github.com/anonfeed/anonfeed/pkg/logger"
	"github.com/anonfeed/anonfeed/pkg/mailer"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Get().Info("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) error {
	log := logger.Get()

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(db.Database)
	feedRepo := repositories.NewMongoFeedRepository(db.Database)
	commentRepo := repositories.NewMongoCommentRepository(db.Database)

	// --- Initialize services ---
	relationshipService := services.NewRelationshipService(userRepo)
	feedService := services.NewFeedService(userRepo, feedRepo, commentRepo)
	suggestionService := services.NewSuggestionService(cfg.Suggestions.Path)

	imageStore, err := images.NewCloudinaryStore(cfg.Cloudinary.URL)
	if err != nil {
		return err
	}
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)

	// --- Unprotected routes ---
	public := e.Group("/api")
	authHandler := handlers.NewAuthHandler(userRepo, smtpMailer, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(public)
	log.Info("Auth routes configured")

	feedHandler := handlers.NewFeedHandler(feedService, suggestionService)
	feedHandler.RegisterPublicFeedRoutes(public)
	log.Info("Public feed routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	log.Info("JWT authentication middleware applied", zap.String("group", "/api"))

	followHandler := handlers.NewFollowHandler(relationshipService)
	followHandler.RegisterFollowRoutes(api)
	log.Info("Follow routes configured")

	feedHandler.RegisterFeedRoutes(api)
	log.Info("Feed routes configured")

	commentHandler := handlers.NewCommentHandler(feedService)
	commentHandler.RegisterCommentRoutes(api)
	log.Info("Comment routes configured")

	userHandler := handlers.NewUserHandler(userRepo, imageStore)
	userHandler.RegisterUserRoutes(api)
	log.Info("User routes configured")

	log.Info("All routes configured")
	return nil
}
