package router

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/handler"
	"marketplace/internal/adapter/api/middleware"
)

func SetupProductRouter(e *echo.Echo, productHandler *handler.ProductHandler, authMiddleware *middleware.AuthMiddleware) {
	products := e.Group("/product")
	products.GET("/latest", productHandler.ListLatest)
	products.GET("/detail/:id", productHandler.GetProductDetail)
	products.DELETE("/:id", productHandler.DeleteProduct, authMiddleware.Authenticate)
}
