package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"marketplace/internal/domain/entity"
)

const (
	ContextUserID  = "uid"
	ContextProfile = "profile"
)

// TokenVerifier turns a bearer token into the caller's profile.
type TokenVerifier interface {
	Verify(token string) (*entity.Profile, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		profile, err := m.verifier.Verify(parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		c.Set(ContextUserID, profile.ID)
		c.Set(ContextProfile, profile)

		return next(c)
	}
}

// AuthenticateQuery accepts the token from the "token" query parameter, for
// websocket upgrades where clients cannot set headers.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			if token := c.QueryParam("token"); token != "" {
				c.Request().Header.Set("Authorization", "Bearer "+token)
			}
		}
		return m.Authenticate(next)(c)
	}
}

func UserID(c echo.Context) string {
	uid, _ := c.Get(ContextUserID).(string)
	return uid
}
