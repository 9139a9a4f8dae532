package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// RateLimiter paces calls to a public API so a burst of commands cannot get
// the bot banned by the upstream.
type RateLimiter struct {
	source  string
	limiter *rate.Limiter
}

// NewRateLimiter allows burst calls at once and one more every interval.
func NewRateLimiter(source string, burst int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		source:  source,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

// Wait blocks until a call is allowed or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.limiter.Tokens() < 1 {
		log.Debug("rate limited, waiting for a token", "source", r.source)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit: %w", r.source, err)
	}
	return nil
}
