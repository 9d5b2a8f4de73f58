package cachex_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/stretchr/testify/require"
)

func TestWithLock_RunsAndReleases(t *testing.T) {
	ctx := context.Background()
	m := cachex.NewMemory()

	ran := false
	err := cachex.WithLock(ctx, m, "lock:x", cachex.DefaultLockOptions, func(context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)

	ok, err := m.AcquireLock(ctx, "lock:x", "other", time.Second)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWithLock_Busy(t *testing.T) {
	ctx := context.Background()
	m := cachex.NewMemory()

	ok, _ := m.AcquireLock(ctx, "lock:x", "holder", time.Minute)
	require.True(t, ok)

	err := cachex.WithLock(ctx, m, "lock:x", cachex.LockOptions{TTL: time.Second, Attempts: 2, Backoff: time.Millisecond}, func(context.Context) error {
		t.Fatal("must not run")
		return nil
	})
	require.ErrorIs(t, err, cachex.ErrLockBusy)
}

func TestWithLock_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := cachex.WithLock(context.Background(), cachex.NewMemory(), "k", cachex.DefaultLockOptions, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestWithLock_Serialises(t *testing.T) {
	ctx := context.Background()
	m := cachex.NewMemory()
	opts := cachex.LockOptions{TTL: time.Second, Attempts: 200, Backoff: time.Millisecond}

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cachex.WithLock(ctx, m, "lock:stock", opts, func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					cur := atomic.LoadInt32(&maxInside)
					if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), maxInside)
}
