package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jlin/promptfinder/internal/api/handler"
	"github.com/jlin/promptfinder/internal/api/middleware"
	"github.com/jlin/promptfinder/internal/config"
	"github.com/jlin/promptfinder/internal/ratelimit"
	"github.com/jlin/promptfinder/internal/repository"
	"github.com/jlin/promptfinder/internal/service"
)

// Services groups the service layer dependencies the router wires up.
type Services struct {
	Generate *service.GenerateService
	Rating   *service.RatingService
	Favorite *service.FavoriteService
	Browse   *service.BrowseService
	Pack     *service.PackService
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	cfg *config.Config,
	svcs Services,
	limiter *ratelimit.Limiter,
	profileRepo *repository.ProfileRepository,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, profileRepo)

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	generateHandler := handler.NewGenerateHandler(svcs.Generate)
	promptHandler := handler.NewPromptHandler(svcs.Browse)
	ratingHandler := handler.NewRatingHandler(svcs.Rating)
	favoriteHandler := handler.NewFavoriteHandler(svcs.Favorite)
	packHandler := handler.NewPackHandler(svcs.Pack)
	billingHandler := handler.NewBillingHandler(cfg.Billing, profileRepo)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Caption generation (rate limited per tier)
		v1.POST("/generate",
			auth.RequireAuth(),
			middleware.RateLimit(limiter, "generate"),
			generateHandler.Generate,
		)

		// Ratings and favorites
		v1.POST("/rate", auth.RequireAuth(), ratingHandler.Rate)
		v1.POST("/favorite", auth.RequireAuth(), favoriteHandler.Toggle)

		// Browsing (identity optional; history scope requires auth)
		v1.GET("/prompts", auth.OptionalAuth(), promptHandler.ListPrompts)
		v1.GET("/prompts/:id", auth.OptionalAuth(), promptHandler.GetPrompt)

		// Packs
		v1.GET("/packs", auth.OptionalAuth(), packHandler.ListPacks)
		v1.GET("/packs/:id", auth.OptionalAuth(), packHandler.GetPack)
		v1.POST("/packs", auth.RequireAuth(), packHandler.CreatePack)
		v1.PUT("/packs/:id", auth.RequireAuth(), packHandler.UpdatePack)
		v1.POST("/packs/:id/prompts", auth.RequireAuth(), packHandler.AddPrompt)
		v1.DELETE("/packs/:id/prompts/:promptId", auth.RequireAuth(), packHandler.RemovePrompt)

		// Billing webhook (signature-verified, no user auth)
		v1.POST("/billing/webhook", billingHandler.Webhook)
	}

	return r
}
