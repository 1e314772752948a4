package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := e.Group("/conversation")
	conversations.Use(authMiddleware.Authenticate)

	conversations.GET("/with/:peerId", chatHandler.GetConversationWith)
}
