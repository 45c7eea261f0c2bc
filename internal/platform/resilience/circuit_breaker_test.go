package resilience

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open trial request to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open trial request, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteRecordsOutcome(t *testing.T) {
	b := NewCircuitBreaker(1, time.Minute, 1)
	boom := errors.New("boom")

	if err := b.Execute(func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failure, got %s", state)
	}

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run while the circuit is open")
	}
}

func TestCircuitBreaker_DisabledConfigAllowsEverything(t *testing.T) {
	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker for disabled config")
	}
	for i := 0; i < 10; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("nil breaker should allow, got %v", err)
	}
}

func TestCircuitBreaker_ReleaseFreesHalfOpenSlot(t *testing.T) {
	b := NewCircuitBreaker(1, time.Second, 1)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open slot, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected slot to be taken, got %v", err)
	}

	b.Release()
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("release should not change state, got %s", state)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected released slot to be reusable, got %v", err)
	}
}

func TestCircuitBreaker_ReleaseKeepsClosedFailureCount(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute, 1)

	b.RecordFailure()
	b.Release()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after two failures around a release, got %s", state)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true, FailureThreshold: -1, HalfOpenMaxReq: 4})
	want := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3, OpenTimeout: 30 * time.Second, HalfOpenMaxReq: 4}
	if got != want {
		t.Fatalf("NormalizeCircuitBreakerConfig = %+v, want %+v", got, want)
	}
}
