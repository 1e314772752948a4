package handler

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/adapter/api/middleware"
	"marketplace/internal/usecase"
	"marketplace/pkg/response"
	"marketplace/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type productIDRequest struct {
	ID string `param:"id" validate:"required"`
}

// GetProductDetail serves GET /product/detail/:id
func (h *ProductHandler) GetProductDetail(c echo.Context) error {
	var req productIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.GetProductDetail(c.Request().Context(), req.ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{"product": product})
}

// DeleteProduct serves DELETE /product/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	var req productIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.productUseCase.DeleteProduct(c.Request().Context(), req.ID, middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, message)
}

// ListLatest serves GET /product/latest
func (h *ProductHandler) ListLatest(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	products, err := h.productUseCase.ListLatest(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{"products": products})
}
