package ratelimit

import (
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows. A max of zero or less
// disables limiting.
type Limiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	counts    map[string]int
	resetTime time.Time
	rejected  int
	now       func() time.Time
}

func NewLimiter(max int, window time.Duration) *Limiter {
	rl := &Limiter{
		max:    max,
		window: window,
		counts: make(map[string]int),
		now:    time.Now,
	}
	rl.resetTime = rl.now().Add(window)
	return rl
}

// Allow records one request for key and reports whether it is within the limit
func (rl *Limiter) Allow(key string) bool {
	if rl.max <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.counts[key] >= rl.max {
		rl.rejected++
		return false
	}
	rl.counts[key]++
	return true
}

// RetryAfter is the time left in the current window
func (rl *Limiter) RetryAfter() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.resetTime.Sub(rl.now())
}

func (rl *Limiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"limit":      rl.max,
		"window":     rl.window.String(),
		"clients":    len(rl.counts),
		"rejected":   rl.rejected,
		"reset_time": rl.resetTime,
	}
}

// checkReset starts a new window if the current one has passed
func (rl *Limiter) checkReset() {
	if rl.now().After(rl.resetTime) {
		clear(rl.counts)
		rl.resetTime = rl.now().Add(rl.window)
	}
}
