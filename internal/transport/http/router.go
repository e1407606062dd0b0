package handlers

import (
	"yonexus/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(authHandler *AuthHandler, characterHandler *CharacterHandler, limiter *middleware.RateLimiter, validator middleware.TokenValidator, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", limiter.Limit(middleware.RouteLogin), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}
		api.GET("/xp-table", characterHandler.LevelTable)

		characters := api.Group("/characters")
		characters.Use(middleware.AuthMiddleware(validator))
		{
			characters.GET("", characterHandler.List)
			characters.POST("", characterHandler.Add)
			characters.PUT("/:id", characterHandler.Update)
			characters.DELETE("/:id", characterHandler.Delete)
			characters.GET("/:id/metrics", characterHandler.Metrics)
			characters.POST("/:id/xp", characterHandler.RecordXp)
			characters.POST("/:id/reset-history", characterHandler.ResetHistory)
		}
	}

	return r
}
