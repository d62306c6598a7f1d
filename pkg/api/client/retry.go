package client

import "time"

// RetryPolicy bounds transport-level retry for a single logical call.
// Attempts are strictly sequential; the backoff delay is fully awaited
// before the next attempt starts.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff maps the zero-based index of the attempt that just failed
	// to the delay before the next one.
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy matches the production client: three attempts with
// 1s, 2s exponential backoff between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff(time.Second),
	}
}

// ExponentialBackoff returns a backoff function yielding base * 2^attempt.
func ExponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		if attempt > 30 {
			attempt = 30
		}
		return base << uint(attempt)
	}
}

// NoBackoff retries immediately. Used in tests and latency-sensitive
// callers that prefer failing fast.
func NoBackoff() func(int) time.Duration {
	return func(int) time.Duration { return 0 }
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Backoff == nil {
		p.Backoff = ExponentialBackoff(time.Second)
	}
	return p
}
