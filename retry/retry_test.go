package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBackoff_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := WithBackoff(context.Background(), operation, 3, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestWithBackoff_EventualSuccess(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := WithBackoff(context.Background(), operation, 5, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	operation := func() error {
		attempts++
		return expectedErr
	}

	err := WithBackoff(context.Background(), operation, 3, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, expectedErr, err, "should return the original error")
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 2 {
			cancel() // Cancel after second attempt
		}
		return errors.New("error")
	}

	err := WithBackoff(ctx, operation, 10, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.LessOrEqual(t, attempts, 2, "should stop when context is canceled")
}

func TestWithBackoff_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	attempts := 0
	operation := func() error {
		attempts++
		time.Sleep(30 * time.Millisecond) // Slow operation
		return errors.New("error")
	}

	err := WithBackoff(ctx, operation, 10, 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "should return context.DeadlineExceeded")
	assert.LessOrEqual(t, attempts, 3, "should stop when context times out")
}

func TestWithBackoff_ExponentialBackoff(t *testing.T) {
	attempts := 0
	var delays []time.Duration
	lastTime := time.Now()

	operation := func() error {
		attempts++
		if attempts > 1 {
			delays = append(delays, time.Since(lastTime))
		}
		lastTime = time.Now()
		if attempts < 4 {
			return errors.New("error")
		}
		return nil
	}

	err := WithBackoff(context.Background(), operation, 5, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)

	// Verify exponential backoff (each delay should be roughly 2x the previous)
	require.Len(t, delays, 3, "should have 3 delays")

	// Allow some tolerance for timing variance
	assert.Greater(t, delays[1], delays[0], "second delay should be greater than first")
	assert.Greater(t, delays[2], delays[1], "third delay should be greater than second")
}

func TestWithBackoff_ZeroMaxAttempts(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	err := WithBackoff(context.Background(), operation, 0, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 0, attempts, "should not attempt with maxAttempts=0")
}

func TestWithBackoff_NegativeMaxAttempts(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	err := WithBackoff(context.Background(), operation, -1, 10*time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 0, attempts, "should not attempt with negative maxAttempts")
}

func TestFixed_EvenPacing(t *testing.T) {
	attempts := 0
	var delays []time.Duration
	lastTime := time.Now()

	operation := func() error {
		attempts++
		if attempts > 1 {
			delays = append(delays, time.Since(lastTime))
		}
		lastTime = time.Now()
		if attempts < 4 {
			return errors.New("error")
		}
		return nil
	}

	err := Fixed(context.Background(), operation, 5, 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)

	// Every delay stays near the configured value instead of doubling
	require.Len(t, delays, 3, "should have 3 delays")
	for i, delay := range delays {
		assert.GreaterOrEqual(t, delay, 20*time.Millisecond, "delay %d should honor the configured pause", i)
		assert.Less(t, delay, 60*time.Millisecond, "delay %d should not grow", i)
	}
}

func TestFixed_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("store unavailable")
	operation := func() error {
		attempts++
		return expectedErr
	}

	err := Fixed(context.Background(), operation, 3, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 3, attempts)
}

func TestFixed_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("error")
	}

	err := Fixed(ctx, operation, 5, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts, "should not attempt with a canceled context")
}
