package watcher

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RescanLimiter paces rescans so a storm of change batches cannot pin the
// CPU on back-to-back full scans.
type RescanLimiter struct {
	inner *rate.Limiter
}

// NewRescanLimiter creates a token bucket limiter.
// perSecond: rescans per second. burst: bucket size.
func NewRescanLimiter(perSecond float64, burst int) *RescanLimiter {
	return &RescanLimiter{
		inner: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Allow reports whether a rescan may start now.
func (l *RescanLimiter) Allow() bool {
	return l.inner.AllowN(time.Now(), 1)
}

// Wait blocks until a rescan may start.
func (l *RescanLimiter) Wait(ctx context.Context) error {
	return l.inner.WaitN(ctx, 1)
}
