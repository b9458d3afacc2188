package routes

import (
	"reelmates_backend/internal/handlers"
	"reelmates_backend/internal/logger"
	"reelmates_backend/internal/middleware"
	"reelmates_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all HTTP and websocket routes.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
