package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestRetry_RetriesOnlyMarkedErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}, func(int) error {
		attempts++
		if attempts < 3 {
			return errors.Mark(errors.New("status 503"), ErrRetryable)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}

	attempts = 0
	permanent := errors.New("status 404")
	err = Retry(context.Background(), RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond}, func(int) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_GivesUpAfterBudget(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}, func(int) error {
		attempts++
		return errors.Mark(errors.New("status 500"), ErrRetryable)
	})
	if !errors.Is(err, ErrRetryable) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, RetryPolicy{MaxRetries: 5, Backoff: time.Second}, func(int) error {
		return errors.Mark(errors.New("status 502"), ErrRetryable)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
