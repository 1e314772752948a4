package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
	"marketplace/internal/infrastructure/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Product   *handler.ProductHandler
	Chat      *handler.ChatHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
	DevToken  *handler.DevTokenHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, environment string) {
	SetupHealthRouter(e, h.Health)
	SetupProductRouter(e, h.Product, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
	SetupDevRouter(e, h.DevToken, environment)

	e.GET("/metrics", metrics.Handler())
}
