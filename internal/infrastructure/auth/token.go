package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"marketplace/internal/domain/entity"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the profile the client displays next to its own messages.
type Claims struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Profile() *entity.Profile {
	return &entity.Profile{
		ID:     c.Subject,
		Name:   c.Name,
		Avatar: c.Avatar,
	}
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *TokenService) Issue(profile entity.Profile) (string, error) {
	if profile.ID == "" {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := Claims{
		Name:   profile.Name,
		Avatar: profile.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) Verify(token string) (*entity.Profile, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims.Profile(), nil
}

// ParseUnverified reads the profile out of a token without checking its
// signature. The client uses it to know who is signed in; the API verifies.
func ParseUnverified(token string) (*entity.Profile, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims.Profile(), nil
}
