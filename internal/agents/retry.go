package agents

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds retries of model-backed calls. Only ParseError and
// ExternalServiceError are retryable; everything else surfaces immediately.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts including the first.
	MaxAttempts int
	// InitialBackoff is the delay before the second attempt; each further
	// attempt doubles it.
	InitialBackoff time.Duration
	// CallTimeout bounds each individual attempt. Zero means no per-call
	// timeout beyond the caller's context.
	CallTimeout time.Duration
}

// DefaultRetryPolicy matches the pipeline contract: 3 attempts with
// exponential backoff starting at 500ms, 60s per model call.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		CallTimeout:    60 * time.Second,
	}
}

// Retryable reports whether an error kind may be retried under the policy.
func Retryable(err error) bool {
	var parseErr *ParseError
	var svcErr *ExternalServiceError
	return errors.As(err, &parseErr) || errors.As(err, &svcErr)
}

// Retry runs fn under the policy, applying the per-attempt timeout and
// exponential backoff between attempts. It returns the last error when all
// attempts are exhausted, and stops early for non-retryable errors or when
// ctx is cancelled.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	backoff := policy.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if policy.CallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.CallTimeout)
		}

		err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}

		// A per-attempt deadline is an external-service failure, not a
		// caller cancellation.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = &ExternalServiceError{Message: "model call timed out", Cause: err}
		}

		lastErr = err

		if !Retryable(err) || attempt == attempts {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return lastErr
		}
		backoff *= 2
	}

	return lastErr
}
