package pulsetrans

import (
	"context"
	"sync"
	"time"
)

// RateLimiter throttles provider requests with a token bucket. External
// translation APIs are rate-limited and paid, so feed runners throttle
// themselves rather than burn retries on 429s.
type RateLimiter struct {
	mu     sync.Mutex
	tokens float64
	burst  float64
	rate   float64 // tokens per second
	last   time.Time
}

// RateLimitConfig configures the rate limiter.
type RateLimitConfig struct {
	RequestsPerMinute int // Maximum requests per minute
	BurstSize         int // Maximum burst size (default: same as RPM)
}

// NewRateLimiter creates a limiter with a full bucket.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}

	return &RateLimiter{
		tokens: float64(burst),
		burst:  float64(burst),
		rate:   float64(rpm) / 60.0,
		last:   time.Now(),
	}
}

// Wait blocks until a token is available or ctx ends. Each sleep is sized to
// the current token deficit rather than a fixed poll interval.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		ok, wait := r.take()
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryAcquire takes a token if one is available, without blocking.
func (r *RateLimiter) TryAcquire() bool {
	ok, _ := r.take()
	return ok
}

// Available returns the number of tokens currently in the bucket.
func (r *RateLimiter) Available() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refillLocked(time.Now())
	return r.tokens
}

// take refills the bucket, then either consumes a token or reports how long
// until the next one accrues.
func (r *RateLimiter) take() (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refillLocked(time.Now())

	if r.tokens >= 1 {
		r.tokens--
		return true, 0
	}

	deficit := 1 - r.tokens
	return false, time.Duration(deficit / r.rate * float64(time.Second))
}

func (r *RateLimiter) refillLocked(now time.Time) {
	r.tokens += now.Sub(r.last).Seconds() * r.rate
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
	r.last = now
}

// RateLimitedProvider wraps a Provider so every call waits for a token first.
type RateLimitedProvider struct {
	provider Provider
	limiter  *RateLimiter
}

// NewRateLimitedProvider creates a new rate-limited provider.
func NewRateLimitedProvider(provider Provider, cfg RateLimitConfig) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  NewRateLimiter(cfg),
	}
}

// Translate implements Provider with rate limiting.
func (p *RateLimitedProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Message:   "rate limit wait cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return p.provider.Translate(ctx, req)
}

// Limiter returns the underlying rate limiter for inspection.
func (p *RateLimitedProvider) Limiter() *RateLimiter {
	return p.limiter
}
