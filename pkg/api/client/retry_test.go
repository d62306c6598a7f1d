package client

import (
	"testing"
	"time"
)

func TestExponentialBackoffDoubles(t *testing.T) {
	backoff := ExponentialBackoff(time.Second)
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for attempt, expected := range want {
		if got := backoff(attempt); got != expected {
			t.Fatalf("backoff(%d) = %v, want %v", attempt, got, expected)
		}
	}
	if got := backoff(-1); got != time.Second {
		t.Fatalf("negative attempt should clamp to base, got %v", got)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	if p.MaxAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", p.MaxAttempts)
	}
	if p.Backoff(1) != 2*time.Second {
		t.Fatalf("expected 2s second delay, got %v", p.Backoff(1))
	}
}

func TestPolicyNormalization(t *testing.T) {
	p := RetryPolicy{}.normalized()
	if p.MaxAttempts != 1 {
		t.Fatalf("zero attempts should normalize to 1, got %d", p.MaxAttempts)
	}
	if p.Backoff == nil {
		t.Fatal("nil backoff should normalize to a default")
	}
}
