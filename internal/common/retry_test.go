package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitesail/pennybook/internal/service"
)

func fastOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0

	err := WithRetry(context.Background(), func() error {
		calls++
		return nil
	}, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRecoversFromTransientFailure(t *testing.T) {
	calls := 0

	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return NewRetryable(errors.New("transient"))
		}
		return nil
	}, fastOptions())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0

	err := WithRetry(context.Background(), func() error {
		calls++
		return NewRetryable(errors.New("transient"))
	}, fastOptions())

	require.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 3, calls)
}

func TestWithRetryTerminalErrorAbortsImmediately(t *testing.T) {
	calls := 0
	terminal := NewTerminal(errors.New("bad input"))

	err := WithRetry(context.Background(), func() error {
		calls++
		return terminal
	}, fastOptions())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastOptions()
	opts.InitialDelay = time.Minute

	err := WithRetry(ctx, func() error {
		return NewRetryable(errors.New("transient"))
	}, opts)

	require.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryable(errors.New("x"))))
	assert.False(t, IsRetryable(NewTerminal(errors.New("x"))))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestIsValidation(t *testing.T) {
	for _, err := range []error{ErrEmptyMessage, ErrFormatNotRecognized, ErrMissingSubject, ErrUnknownSubject} {
		assert.True(t, IsValidation(err))
	}
	assert.False(t, IsValidation(errors.New("other")))
}
