package perses

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/perses-gateway/internal/metrics"
)

// RateLimiter caps the request rate sent to Perses with a token bucket.
// Calls that find the bucket empty block until a token frees up.
type RateLimiter struct {
	limiter *rate.Limiter
	waited  atomic.Int64
	nowFunc func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter allowing perSecond requests with
// bursts of up to burst requests.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wait blocks until the limiter admits the call or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	now := r.nowFunc()
	res := r.limiter.ReserveN(now, 1)
	if !res.OK() {
		return fmt.Errorf("rate limiter wait: burst of %d cannot admit a request", r.limiter.Burst())
	}

	delay := res.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	r.waited.Add(1)
	metrics.PersesRateLimitWaitsTotal.Inc()

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		res.CancelAt(r.nowFunc())
		return fmt.Errorf("rate limiter wait: %w", ctx.Err())
	}
}

// Waited returns how many calls had to wait for a token.
func (r *RateLimiter) Waited() int64 {
	return r.waited.Load()
}
