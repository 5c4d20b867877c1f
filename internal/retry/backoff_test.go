package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxAttempts int) BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
		MaxAttempts:  maxAttempts,
		Jitter:       false,
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	b := NewBackoff(fastConfig(5))

	calls := 0
	err := b.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	b := NewBackoff(fastConfig(3))

	calls := 0
	wantErr := errors.New("permanent")
	err := b.Retry(context.Background(), func() error {
		calls++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls)
}

func TestRetryWithPredicate_StopsOnNonRetryable(t *testing.T) {
	b := NewBackoff(fastConfig(5))

	calls := 0
	err := b.RetryWithPredicate(context.Background(), func() error {
		calls++
		return errors.New("fatal")
	}, func(error) bool { return false })

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		MaxAttempts:  5,
	})

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := b.Retry(ctx, func() error {
		calls++
		return errors.New("keep going")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation during backoff must stop retries")
}

func TestGetNextDelay_GrowsAndCaps(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		MaxAttempts:  10,
		Jitter:       false,
	})

	assert.Equal(t, 100*time.Millisecond, b.GetNextDelay(1))
	assert.Equal(t, 200*time.Millisecond, b.GetNextDelay(2))
	assert.Equal(t, 400*time.Millisecond, b.GetNextDelay(3))
	assert.Equal(t, time.Second, b.GetNextDelay(10), "delay must cap at MaxDelay")
}

func TestGetNextDelay_JitterStaysInBounds(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		MaxAttempts:  5,
		Jitter:       true,
	})

	for i := 0; i < 50; i++ {
		delay := b.GetNextDelay(2)
		assert.GreaterOrEqual(t, delay, 150*time.Millisecond)
		assert.LessOrEqual(t, delay, 250*time.Millisecond)
	}
}
