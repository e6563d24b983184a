package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers all HTTP routes on the router.
func SetupRoutes(router *gin.Engine, handler *Handler, allowedOrigins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		chat := api.Group("/chat/sessions")
		{
			chat.POST("", handler.CreateChatSession)
			chat.GET("/:id", handler.GetChatSession)
			chat.POST("/:id/messages", handler.PostChatMessage)
			chat.POST("/:id/reset", handler.ResetChatSession)
			chat.POST("/:id/publish", handler.PublishChatListing)
		}

		api.GET("/listings", handler.GetListings)
		api.GET("/listings/:id", handler.GetListing)
		api.GET("/recent-listings", handler.GetRecentListings)
		api.GET("/stats", handler.GetListingStats)
		api.GET("/areas", handler.GetAreas)
		api.GET("/areas/:name", handler.GetArea)
		api.GET("/districts", handler.GetDistricts)
		api.POST("/import-listings", handler.ImportListings)
		api.POST("/update-coordinates", handler.UpdateCoordinates)

		api.GET("/telegram/config", handler.GetTelegramConfig)
		api.POST("/telegram/config", handler.UpdateTelegramConfig)
		api.POST("/telegram/filters", handler.UpdateTelegramFilters)
		api.POST("/telegram/test", handler.TestTelegramConfig)
	}
}
