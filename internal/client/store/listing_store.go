package store

import (
	"sync"

	"marketplace/internal/domain/entity"
)

// ListingStore is the ordered product listing shared by the listing screens.
type ListingStore struct {
	mu    sync.RWMutex
	items []entity.LatestProduct
}

func NewListingStore() *ListingStore {
	return &ListingStore{}
}

func (s *ListingStore) Set(items []entity.LatestProduct) {
	s.mu.Lock()
	s.items = append([]entity.LatestProduct(nil), items...)
	s.mu.Unlock()
}

// Remove drops the product with the given id; unknown ids are ignored.
func (s *ListingStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

func (s *ListingStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func (s *ListingStore) All() []entity.LatestProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.LatestProduct(nil), s.items...)
}
