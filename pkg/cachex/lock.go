package cachex

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLockBusy is returned by WithLock when every attempt found the lock held.
var ErrLockBusy = errors.New("cachex: lock busy")

// LockOptions tunes WithLock.
type LockOptions struct {
	TTL      time.Duration
	Attempts int
	Backoff  time.Duration
}

// DefaultLockOptions holds a lock for 5s and retries three times 100ms apart.
var DefaultLockOptions = LockOptions{TTL: 5 * time.Second, Attempts: 3, Backoff: 100 * time.Millisecond}

// WithLock runs fn while holding key. Locker errors count as a failed
// attempt so a flapping cache degrades to ErrLockBusy rather than hanging.
func WithLock(ctx context.Context, l Locker, key string, opts LockOptions, fn func(context.Context) error) error {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultLockOptions.TTL
	}

	token := uuid.NewString()
	acquired := false
	for i := range opts.Attempts {
		ok, err := l.AcquireLock(ctx, key, token, opts.TTL)
		if err == nil && ok {
			acquired = true
			break
		}
		if i == opts.Attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Backoff):
		}
	}
	if !acquired {
		return ErrLockBusy
	}

	defer func() {
		// Release with a detached context so a cancelled request still frees the key.
		_ = l.ReleaseLock(context.WithoutCancel(ctx), key, token)
	}()

	return fn(ctx)
}
