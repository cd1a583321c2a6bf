package resilience

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"mcpflow/internal/mcperr"
)

// RateLimitConfig parameterizes one token-bucket budget: Capacity tokens
// refill over RefreshPeriod, and TryAcquire waits at most MaxWait for a
// permit before reporting rate-limited.
type RateLimitConfig struct {
	Capacity      int
	RefreshPeriod time.Duration
	MaxWait       time.Duration
}

// Default budgets named in the resilience design.
var (
	GenerativeAPIBudget = RateLimitConfig{Capacity: 30, RefreshPeriod: time.Minute, MaxWait: 5 * time.Second}
	UserRequestBudget   = RateLimitConfig{Capacity: 100, RefreshPeriod: time.Minute, MaxWait: time.Second}
	ToolExecutionBudget = RateLimitConfig{Capacity: 50, RefreshPeriod: time.Minute, MaxWait: 2 * time.Second}
)

// RateLimiter is a token-bucket admission gate for one logical endpoint.
type RateLimiter struct {
	limiter *rate.Limiter
	maxWait time.Duration
}

// NewRateLimiter builds a limiter that refills Capacity tokens evenly
// over RefreshPeriod, with a burst equal to Capacity.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	perSecond := float64(cfg.Capacity) / cfg.RefreshPeriod.Seconds()
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), cfg.Capacity),
		maxWait: cfg.MaxWait,
	}
}

// TryAcquire blocks for up to MaxWait for one permit. It returns a
// rate-limited Failure if no permit becomes available in time, or if
// the caller's own context is cancelled first.
func (l *RateLimiter) TryAcquire(ctx context.Context) error {
	if l.limiter.Allow() {
		return nil
	}
	if l.maxWait <= 0 {
		return mcperr.New(mcperr.KindRateLimited, "rate limit exceeded")
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.limiter.Wait(waitCtx); err != nil {
		return mcperr.Wrap(mcperr.KindRateLimited, "rate limit exceeded", err)
	}
	return nil
}

// Tokens reports the limiter's current token count, for observability.
func (l *RateLimiter) Tokens() float64 {
	return l.limiter.Tokens()
}
