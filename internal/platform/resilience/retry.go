package resilience

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrRetryable marks a failure worth another attempt, such as a 429 or a 5xx.
var ErrRetryable = errors.New("retryable failure")

type RetryPolicy struct {
	MaxRetries int
	// Backoff grows linearly: attempt n waits n*Backoff.
	Backoff time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		Backoff:    200 * time.Millisecond,
	}
}

// Retry calls fn until it succeeds, returns an error not marked ErrRetryable, or the retry
// budget runs out. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, fn func(attempt int) error) error {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, time.Duration(attempt)*policy.Backoff); err != nil {
				return errors.CombineErrors(lastErr, err)
			}
		}

		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrRetryable) {
			return lastErr
		}
	}

	return lastErr
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
