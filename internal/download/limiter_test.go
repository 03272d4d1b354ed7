package download

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_BoundsConcurrency(t *testing.T) {
	const capacity = 3
	l := NewLimiter(capacity)

	var active, peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(context.Background()))
			defer l.Release()

			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(capacity))
	assert.Positive(t, peak.Load())
}

func TestLimiter_AcquireCancelled(t *testing.T) {
	l := NewLimiter(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The permit taken above is still held.
	assert.False(t, l.TryAcquire())
	l.Release()
	assert.True(t, l.TryAcquire())
}

func TestNewLimiter_MinimumCapacity(t *testing.T) {
	l := NewLimiter(0)
	assert.Equal(t, 1, l.Capacity())
	assert.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire())
}
