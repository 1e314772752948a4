// Package session holds the signed-in identity of the client.
package session

import (
	"sync"

	"marketplace/internal/domain/entity"
	"marketplace/internal/infrastructure/auth"
)

// Provider exposes the current identity; Profile is nil when signed out.
type Provider interface {
	Profile() *entity.Profile
	Token() string
}

type Session struct {
	mu      sync.RWMutex
	token   string
	profile *entity.Profile
}

func New() *Session {
	return &Session{}
}

// FromToken signs in with a session token issued by the API.
func FromToken(token string) (*Session, error) {
	s := New()
	if token == "" {
		return s, nil
	}
	if err := s.SignIn(token); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) SignIn(token string) error {
	profile, err := auth.ParseUnverified(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.mu.Unlock()
	return nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()
}

func (s *Session) Profile() *entity.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
