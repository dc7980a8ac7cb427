package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerKeyWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }
	rl.resetTime = now.Add(time.Minute)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, time.Minute, rl.RetryAfter())

	now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("a"))
	assert.Equal(t, 1, rl.GetStats()["rejected"])
}

func TestLimiter_Disabled(t *testing.T) {
	rl := NewLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("a"))
	}
}
