package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parse error is retryable", &ParseError{Message: "bad JSON"}, true},
		{"external service error is retryable", &ExternalServiceError{Message: "timeout"}, true},
		{"validation error is not retryable", &ValidationError{Message: "missing resume"}, false},
		{"config error is not retryable", &ConfigError{Message: "bad weights"}, false},
		{"concurrency conflict is not retryable", &ConcurrencyConflictError{CandidateID: "x"}, false},
		{"wrapped parse error is retryable", &ExternalServiceError{Message: "outer", Cause: errors.New("inner")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestRetryStopsAfterMaxAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	calls := 0
	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return &ParseError{Message: "still malformed"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestRetryDoesNotRetryValidationError(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	calls := 0
	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return &ValidationError{Message: "no resume text"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	calls := 0
	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &ExternalServiceError{Message: "unavailable"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryHonorsCancelledContext(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, InitialBackoff: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		// Cancel while the first backoff sleep is pending.
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Retry(ctx, policy, func(ctx context.Context) error {
		calls++
		return &ExternalServiceError{Message: "down"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRetryConvertsDeadlineToExternalServiceError(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 1, CallTimeout: 5 * time.Millisecond}

	err := Retry(context.Background(), policy, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.Error(t, err)
	var svcErr *ExternalServiceError
	assert.True(t, errors.As(err, &svcErr))
}
