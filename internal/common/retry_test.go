package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/expenseflow/internal/service"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries an unavailable remote until it recovers", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return fmt.Errorf("%w: connection refused", ErrRemoteUnavailable)
			}
			return nil
		}, fastRetry(5))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return fmt.Errorf("%w: still down", ErrRemoteUnavailable)
		}, fastRetry(3))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMaxRetries))
		assert.Equal(t, 3, calls)
	})

	t.Run("aborts immediately on a non-retryable error", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return fmt.Errorf("%w: expense EXP-2025-404", ErrNotFound)
		}, fastRetry(5))

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("fetch: %w", ErrRemoteUnavailable)))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("flaky"), Retryable: true}))

	assert.False(t, IsRetryable(fmt.Errorf("get: %w", ErrNotFound)))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("fatal"), Retryable: false}))
	assert.False(t, IsRetryable(errors.New("unclassified")))
}

func TestUserError(t *testing.T) {
	wrapped := NewUserError("could not sync from the expense API", ErrRemoteUnavailable)
	assert.Equal(t, "could not sync from the expense API: remote unavailable", wrapped.Error())
	assert.True(t, errors.Is(wrapped, ErrRemoteUnavailable))

	var userErr *UserError
	require.True(t, errors.As(wrapped, &userErr))
	assert.Equal(t, "could not sync from the expense API", userErr.UserMessage)

	bare := &UserError{UserMessage: "nothing to migrate"}
	assert.Equal(t, "nothing to migrate", bare.Error())
}
