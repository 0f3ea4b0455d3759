package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiting requests per minute. Tokens are
// refilled lazily from elapsed time, so no background goroutine is needed.
type RateLimiter struct {
	lastRefill time.Time
	interval   time.Duration
	tokens     float64
	capacity   float64
	mu         sync.Mutex
}

// NewRateLimiter creates a limiter allowing requestsPerMinute acquisitions.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	return &RateLimiter{
		tokens:     float64(requestsPerMinute),
		capacity:   float64(requestsPerMinute),
		interval:   time.Minute / time.Duration(requestsPerMinute),
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is canceled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (rl *RateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	refill := float64(now.Sub(rl.lastRefill)) / float64(rl.interval)
	if refill > 0 {
		rl.tokens += refill
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
		rl.lastRefill = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}
