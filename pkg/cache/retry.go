package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a key that is absent from the cache.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a remote backend that could not be reached.
	ErrNetwork = errors.New("cache backend unreachable")
)

// Backoff describes how connection attempts to a remote backend are retried.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// DefaultBackoff is used when dialing Redis and MongoDB.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 250 * time.Millisecond, Max: 2 * time.Second}

type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

// Retryable marks err as transient so [Backoff.Do] tries again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err}
}

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

// Do calls fn until it succeeds, returns an error not marked [Retryable], or
// the attempts are used up. The delay doubles after each failure, capped at
// Max. The last error is returned unwrapped from its retry marker.
func (b Backoff) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial

	var err error
	for i := range attempts {
		if err = fn(ctx); err == nil {
			return nil
		}
		var r retryable
		if !errors.As(err, &r) {
			return err
		}
		err = r.err
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if delay *= 2; b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return err
}
