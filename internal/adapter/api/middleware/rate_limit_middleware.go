package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace/pkg/logger"
)

const actionHTTP = "http"

// Limiter is satisfied by ratelimit.RateLimiter.
type Limiter interface {
	Allow(key, action string) bool
}

// RateLimit rejects requests from an IP once its bucket is empty.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !limiter.Allow(ip, actionHTTP) {
				logger.Warn("RATE LIMIT: Blocked request from IP %s", ip)
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}
			return next(c)
		}
	}
}
