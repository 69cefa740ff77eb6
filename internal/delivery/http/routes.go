package http

import (
	"github.com/gin-gonic/gin"
	"github.com/recipecart/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Provider redirect target for the authorization code grant
	router.GET("/oauth/callback", handler.OAuthCallback)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/search", handler.SearchRecipes)
			recipes.GET("", handler.StoredRecipes)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.POST("/normalize", handler.NormalizeIngredients)
			ingredients.POST("/allergens", handler.ProfileAllergens)
		}

		v1.POST("/cart", handler.AddToCart)
	}

	return router
}
