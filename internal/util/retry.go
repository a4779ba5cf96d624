// Package util holds small shared helpers.
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryPolicy retries an operation with exponential backoff and jitter.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy suits remote API calls: 3 attempts starting at 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 30 * time.Second}
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context is
// cancelled. The last error is returned on exhaustion.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoff(attempt)):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// backoff doubles the base delay each attempt and adds up to +/-25% jitter.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	d := p.BaseDelay * time.Duration(1<<uint(attempt-1))
	max := p.MaxDelay
	if max <= 0 {
		max = 30 * time.Second
	}
	if d > max {
		d = max
	}
	jitter := time.Duration(rand.Int64N(int64(d)/2+1)) - d/4
	return d + jitter
}
