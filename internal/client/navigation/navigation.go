// Package navigation models the app's screen history independently of any UI
// toolkit.
package navigation

import (
	"sync"

	"marketplace/internal/domain/entity"
)

const (
	Home          = "Home"
	ChatWindow    = "ChatWindow"
	Listings      = "Listings"
	EditProduct   = "EditProduct"
	SingleProduct = "SingleProduct"
)

type Route struct {
	Name   string
	Params interface{}
}

type ChatWindowParams struct {
	ConversationID string
	PeerProfile    entity.Profile
}

type EditProductParams struct {
	Product entity.Product
}

type SingleProductParams struct {
	Product *entity.Product
	ID      string
}

// Navigator moves between screens.
type Navigator interface {
	Navigate(route Route)
	// Reset replaces the whole history with routes and focuses routes[index].
	// Routes after index are dropped.
	Reset(index int, routes []Route)
}

// Stack is an in-memory Navigator.
type Stack struct {
	mu     sync.RWMutex
	routes []Route
	index  int
}

func NewStack(initial ...Route) *Stack {
	s := &Stack{}
	if len(initial) > 0 {
		s.routes = append(s.routes, initial...)
		s.index = len(initial) - 1
	}
	return s
}

// Navigate focuses an existing route with the same name, dropping what was
// above it, or pushes a new one.
func (s *Stack) Navigate(route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.routes) - 1; i >= 0; i-- {
		if s.routes[i].Name == route.Name {
			if route.Params != nil {
				s.routes[i].Params = route.Params
			}
			s.routes = s.routes[:i+1]
			s.index = i
			return
		}
	}

	if len(s.routes) > 0 {
		s.routes = s.routes[:s.index+1:s.index+1]
	}
	s.routes = append(s.routes, route)
	s.index = len(s.routes) - 1
}

func (s *Stack) Reset(index int, routes []Route) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(routes) == 0 {
		s.routes = nil
		s.index = 0
		return
	}
	if index < 0 || index >= len(routes) {
		index = len(routes) - 1
	}

	s.routes = append([]Route(nil), routes[:index+1]...)
	s.index = index
}

// GoBack pops the focused route. It reports false at the root.
func (s *Stack) GoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == 0 {
		return false
	}
	s.routes = s.routes[:s.index]
	s.index--
	return true
}

func (s *Stack) Current() (Route, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.routes) == 0 {
		return Route{}, false
	}
	return s.routes[s.index], true
}

func (s *Stack) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Route(nil), s.routes...)
}
