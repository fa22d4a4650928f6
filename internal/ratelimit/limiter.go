package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum spacing between outbound calls to an
// upstream API class. One shared instance throttles the whole process:
// the underlying token bucket serializes concurrent callers, so two
// requests can never both observe a stale "last dispatch" time and burst
// the upstream.
type Limiter struct {
	lim      *rate.Limiter
	interval time.Duration
}

// New creates a limiter that releases one call per minInterval.
func New(minInterval time.Duration) *Limiter {
	return &Limiter{
		lim:      rate.NewLimiter(rate.Every(minInterval), 1),
		interval: minInterval,
	}
}

// WaitTurn blocks until at least the configured interval has elapsed
// since the previous turn, or until ctx is done.
func (l *Limiter) WaitTurn(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// Interval reports the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
