package download

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps the number of simultaneously in-flight track downloads.
//
// The Limiter governs logical concurrency; the HTTP transport's
// connection caps govern physical connections. The logical capacity
// must stay at or below the per-host connection cap, otherwise permits
// exist that can never make progress.
//
// Waiters are served roughly FIFO; no stronger fairness is promised.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewLimiter creates a Limiter with the given capacity. Capacities
// below 1 are raised to 1.
func NewLimiter(capacity int) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Acquire blocks until a permit is available or ctx is done, in which
// case ctx's error is returned and no permit is held.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release returns a permit. Must be called exactly once per successful
// Acquire.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// TryAcquire takes a permit without blocking, reporting whether one
// was available.
func (l *Limiter) TryAcquire() bool {
	return l.sem.TryAcquire(1)
}

// Capacity returns the configured permit count.
func (l *Limiter) Capacity() int {
	return l.capacity
}
