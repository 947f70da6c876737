package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(clock Clock, opts ...Option) *Limiter {
	return New(zap.NewNop(), append([]Option{WithClock(clock)}, opts...)...)
}

func TestLimiter_AllowsUpToLimitThenDenies(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Check("hotel:1.2.3.4", 5, time.Minute), "call %d", i+1)
	}
	assert.False(t, l.Check("hotel:1.2.3.4", 5, time.Minute))
	assert.False(t, l.Check("hotel:1.2.3.4", 5, time.Minute))
}

func TestLimiter_RecoversAfterWindow(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	assert.True(t, l.Check("k", 1, time.Minute))
	assert.False(t, l.Check("k", 1, time.Minute))

	clock.Advance(time.Minute + time.Millisecond)
	assert.True(t, l.Check("k", 1, time.Minute))
}

func TestLimiter_SlidingNotFixedBucket(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	span := 10 * time.Second

	assert.True(t, l.Check("k", 2, span)) // t=0
	clock.Advance(5 * time.Second)
	assert.True(t, l.Check("k", 2, span)) // t=5
	assert.False(t, l.Check("k", 2, span))

	// only the t=0 stamp has aged out; t=5 still counts
	clock.Advance(5 * time.Second)
	assert.True(t, l.Check("k", 2, span)) // t=10
	assert.False(t, l.Check("k", 2, span))

	clock.Advance(5 * time.Second)
	assert.True(t, l.Check("k", 2, span)) // t=15
}

func TestLimiter_DeniedRequestsAreNotRecorded(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	span := 10 * time.Second

	assert.True(t, l.Check("k", 1, span))
	clock.Advance(9 * time.Second)
	assert.False(t, l.Check("k", 1, span))

	clock.Advance(1 * time.Second)
	assert.True(t, l.Check("k", 1, span))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	assert.True(t, l.Check("hotel:a", 1, time.Minute))
	assert.False(t, l.Check("hotel:a", 1, time.Minute))
	assert.True(t, l.Check("hotel:b", 1, time.Minute))
	assert.True(t, l.Check("availability:a", 1, time.Minute))
}

func TestLimiter_NonPositiveLimitDenies(t *testing.T) {
	l := newTestLimiter(newFakeClock())

	assert.False(t, l.Check("k", 0, time.Minute))
	assert.Equal(t, 0, l.Size())
}

func TestLimiter_Allow_UsesPolicyKey(t *testing.T) {
	l := newTestLimiter(newFakeClock())
	p := Policy{Endpoint: "reservation", Limit: 1, Window: time.Hour}

	assert.True(t, l.Allow(p, "10.0.0.1"))
	assert.False(t, l.Allow(p, "10.0.0.1"))
	assert.False(t, l.Check("reservation:10.0.0.1", 1, time.Hour))
}

func TestLimiter_SweepRemovesIdleKeys(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock, WithRetention(time.Hour))

	l.Check("old", 10, time.Minute)
	clock.Advance(50 * time.Minute)
	l.Check("fresh", 10, time.Minute)
	require.Equal(t, 2, l.Size())

	clock.Advance(11 * time.Minute)
	removed := l.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, l.Size())

	// the fresh key keeps its history
	assert.True(t, l.Check("fresh", 2, time.Hour))
	assert.False(t, l.Check("fresh", 2, time.Hour))
}

func TestLimiter_CheckAfterSweepStartsFresh(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock, WithRetention(time.Minute))

	assert.True(t, l.Check("k", 1, time.Minute))
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, l.Sweep())

	assert.True(t, l.Check("k", 1, time.Minute))
	assert.Equal(t, 1, l.Size())
}

func TestLimiter_ConcurrentChecksNeverOverAdmit(t *testing.T) {
	l := newTestLimiter(newFakeClock())

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check("k", 50, time.Minute) {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed.Load())
}

func TestLimiter_ConcurrentChecksDuringSweep(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock, WithRetention(time.Nanosecond))

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if l.Check("k", 1000, time.Hour) {
				allowed.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			l.Sweep()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), allowed.Load())
}

func TestLimiter_RunStopsOnContextCancel(t *testing.T) {
	l := newTestLimiter(newFakeClock(), WithSweepInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
