package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionCreateChat  = "create_chat"
	ActionHTTP        = "http"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	buckets map[string]*bucket
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func newLimiter(action string) *rate.Limiter {
	switch action {
	case ActionSendMessage:
		// 10 messages per minute
		return rate.NewLimiter(rate.Every(6*time.Second), 10)
	case ActionCreateChat:
		// 30 conversation lookups per minute
		return rate.NewLimiter(rate.Every(2*time.Second), 30)
	case ActionHTTP:
		return rate.NewLimiter(rate.Every(100*time.Millisecond), 100)
	default:
		return rate.NewLimiter(rate.Every(3*time.Second), 20)
	}
}

// Allow checks if a user action is allowed and consumes a token if so.
func (rl *RateLimiter) Allow(userID, action string) bool {
	key := userID + ":" + action

	rl.mutex.Lock()
	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{limiter: newLimiter(action)}
		rl.buckets[key] = b
	}
	now := rl.now()
	b.lastSeen = now
	rl.mutex.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Cleanup removes buckets that have not been used for an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) Len() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}

// StartCleanupRoutine runs Cleanup every 30 minutes until done is closed.
func (rl *RateLimiter) StartCleanupRoutine(done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-done:
				return
			}
		}
	}()
}
