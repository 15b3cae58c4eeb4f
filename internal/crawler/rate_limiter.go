package crawler

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces requests per host. All workers share one limiter per
// host, so the effective request rate is independent of concurrency.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	delay    time.Duration
}

// NewRateLimiter creates a rate limiter enforcing the given minimum
// delay between requests to the same host.
func NewRateLimiter(delay time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		delay:    delay,
	}
}

// Wait blocks until a request to the given URL's host may proceed, or
// until the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if r.delay <= 0 {
		return ctx.Err()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	return r.hostLimiter(parsedURL.Host).Wait(ctx)
}

// hostLimiter gets or creates the limiter for a host.
func (r *RateLimiter) hostLimiter(host string) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[host]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check again in case another goroutine created it
	if limiter, exists := r.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Every(r.delay), 1)
	r.limiters[host] = limiter

	return limiter
}
