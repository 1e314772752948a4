// Package carousel tracks the image slider of the product detail screen.
package carousel

import (
	"fmt"
	"sync"
)

type Slider struct {
	mu         sync.Mutex
	images     []string
	active     int
	viewerOpen bool
}

func NewSlider(images []string) *Slider {
	s := &Slider{}
	s.SetImages(images)
	return s
}

// SetImages replaces the gallery and rewinds to the first image.
func (s *Slider) SetImages(images []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images = append([]string(nil), images...)
	s.active = 0
	if len(s.images) == 0 {
		s.viewerOpen = false
	}
}

// Visible is false for an empty gallery; the slider is not rendered then.
func (s *Slider) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images) > 0
}

// SetActive records the index reported by the swiper. Out of range values are
// clamped.
func (s *Slider) SetActive(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(s.images) == 0 || index < 0:
		s.active = 0
	case index >= len(s.images):
		s.active = len(s.images) - 1
	default:
		s.active = index
	}
}

func (s *Slider) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Indicator renders the "current/total" counter, 1-based.
func (s *Slider) Indicator() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.images) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.active+1, len(s.images))
}

// Current returns the active image url.
func (s *Slider) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.images) == 0 {
		return "", false
	}
	return s.images[s.active], true
}

// OpenViewer opens the full screen viewer on the given image.
func (s *Slider) OpenViewer(index int) bool {
	s.SetActive(index)

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.images) == 0 {
		return false
	}
	s.viewerOpen = true
	return true
}

func (s *Slider) CloseViewer() {
	s.mu.Lock()
	s.viewerOpen = false
	s.mu.Unlock()
}

func (s *Slider) ViewerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewerOpen
}
