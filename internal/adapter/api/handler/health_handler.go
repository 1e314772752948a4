package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any backing store that can report its health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{
		store: store,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	status := map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.store.PingContext(ctx); err != nil {
			status["status"] = "Store unavailable"
			status["error"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
	}

	return c.JSON(http.StatusOK, status)
}
