// Package ratelimit implements an in-process sliding-window limiter keyed by
// endpoint and caller identity.
//
// Limits are best-effort and local to one process.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultRetention     = time.Hour
	defaultSweepInterval = 5 * time.Minute
)

type window struct {
	mu     sync.Mutex
	stamps []time.Time
	// dead is set once the sweeper has removed the window from the store.
	dead bool
}

// prune drops timestamps at or before cutoff. stamps are kept in arrival order.
func (w *window) prune(cutoff time.Time) {
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return
	}
	kept := make([]time.Time, len(w.stamps)-i)
	copy(kept, w.stamps[i:])
	w.stamps = kept
}

type Limiter struct {
	windows       sync.Map
	clock         Clock
	retention     time.Duration
	sweepInterval time.Duration
	logger        *zap.Logger
}

type Option func(*Limiter)

func WithClock(c Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

// WithRetention sets how long an idle key is kept before the sweeper collects it.
func WithRetention(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.retention = d
		}
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.sweepInterval = d
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		clock:         systemClock{},
		retention:     defaultRetention,
		sweepInterval: defaultSweepInterval,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records a request for key and reports whether it is within limit for the
// trailing span. Denied requests are not recorded.
func (l *Limiter) Check(key string, limit int, span time.Duration) bool {
	if limit <= 0 {
		return false
	}
	for {
		w := l.load(key)
		w.mu.Lock()
		if w.dead {
			w.mu.Unlock()
			continue
		}

		now := l.clock.Now()
		w.prune(now.Add(-span))
		if len(w.stamps) >= limit {
			w.mu.Unlock()
			return false
		}
		w.stamps = append(w.stamps, now)
		w.mu.Unlock()
		return true
	}
}

func (l *Limiter) Allow(p Policy, caller string) bool {
	return l.Check(p.Key(caller), p.Limit, p.Window)
}

func (l *Limiter) load(key string) *window {
	if v, ok := l.windows.Load(key); ok {
		return v.(*window)
	}
	v, _ := l.windows.LoadOrStore(key, &window{})
	return v.(*window)
}

// Sweep removes keys whose whole history is older than the retention period.
// Each key is locked on its own, so checks for other keys are never blocked.
func (l *Limiter) Sweep() int {
	cutoff := l.clock.Now().Add(-l.retention)
	removed := 0
	l.windows.Range(func(k, v any) bool {
		w := v.(*window)
		w.mu.Lock()
		w.prune(cutoff)
		if len(w.stamps) == 0 && !w.dead {
			w.dead = true
			l.windows.CompareAndDelete(k, w)
			removed++
		}
		w.mu.Unlock()
		return true
	})
	return removed
}

// Size returns the number of tracked keys.
func (l *Limiter) Size() int {
	n := 0
	l.windows.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Run sweeps on every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	l.logger.Info("rate limit sweeper started",
		zap.Duration("interval", l.sweepInterval),
		zap.Duration("retention", l.retention),
	)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("rate limit sweeper stopped")
			return nil
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				l.logger.Debug("rate limit keys swept", zap.Int("removed", removed), zap.Int("remaining", l.Size()))
			}
		}
	}
}
