package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_SendMessageBurst(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("u1", ActionSendMessage), "message %d", i)
	}
	assert.False(t, rl.Allow("u1", ActionSendMessage))

	assert.True(t, rl.Allow("u2", ActionSendMessage), "other users have their own bucket")
	assert.True(t, rl.Allow("u1", ActionCreateChat), "other actions have their own bucket")
}

func TestAllow_Refills(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		rl.Allow("u1", ActionSendMessage)
	}
	assert.False(t, rl.Allow("u1", ActionSendMessage))

	now = now.Add(6 * time.Second)
	assert.True(t, rl.Allow("u1", ActionSendMessage))
}

func TestCleanup(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("u1", ActionSendMessage)
	rl.Allow("u2", ActionSendMessage)
	assert.Equal(t, 2, rl.Len())

	now = now.Add(2 * time.Hour)
	rl.Allow("u2", ActionSendMessage)
	rl.Cleanup()

	assert.Equal(t, 1, rl.Len())
}
