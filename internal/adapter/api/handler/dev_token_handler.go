package handler

import (
	"github.com/labstack/echo/v4"

	"marketplace/internal/domain/entity"
	"marketplace/pkg/response"
)

// TokenIssuer signs session tokens for a profile.
type TokenIssuer interface {
	Issue(profile entity.Profile) (string, error)
}

type DevTokenHandler struct {
	issuer TokenIssuer
}

func NewDevTokenHandler(issuer TokenIssuer) *DevTokenHandler {
	return &DevTokenHandler{
		issuer: issuer,
	}
}

type devTokenRequest struct {
	ID     string `query:"id" validate:"required"`
	Name   string `query:"name"`
	Avatar string `query:"avatar"`
}

// GenerateUserToken issues a token for any profile. Development only.
func (h *DevTokenHandler) GenerateUserToken(c echo.Context) error {
	var req devTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	profile := entity.Profile{ID: req.ID, Name: req.Name, Avatar: req.Avatar}
	token, err := h.issuer.Issue(profile)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"token": token,
		"user":  profile,
	})
}
