package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum spacing between consecutive requests. A nil Pacer
// or one built with a non-positive interval never blocks.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer allows one request per interval with no burst credit.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request may go out or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}

// Enabled reports whether the pacer ever blocks.
func (p *Pacer) Enabled() bool {
	return p != nil && p.limiter != nil
}
