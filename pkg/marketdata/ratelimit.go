package marketdata

import (
	"context"
	"sync"
	"time"
)

// minuteLimiter allows at most limit calls per rolling minute window.
// wait blocks until a slot is free or the context is done.
type minuteLimiter struct {
	mu          sync.Mutex
	limit       int
	windowStart time.Time
	count       int
}

func newMinuteLimiter(limit int) *minuteLimiter {
	return &minuteLimiter{limit: limit}
}

func (l *minuteLimiter) wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if now.Sub(l.windowStart) >= time.Minute {
			l.windowStart = now
			l.count = 0
		}
		if l.count < l.limit {
			l.count++
			l.mu.Unlock()
			return nil
		}
		sleep := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
