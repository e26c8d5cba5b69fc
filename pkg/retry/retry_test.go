package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	retrier := NewDefaultRetrier()

	counter := 0
	err := retrier.Do(context.Background(), func() error {
		counter++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, counter)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	retrier := NewRetrier(&Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
	})

	counter := 0
	err := retrier.Do(context.Background(), func() error {
		counter++
		if counter < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, counter)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	retrier := NewRetrier(&Config{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
	})

	wantErr := errors.New("permanent error")
	counter := 0
	err := retrier.Do(context.Background(), func() error {
		counter++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	// Initial try plus two retries.
	assert.Equal(t, 3, counter)
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewDefaultRetrier()

	err := retrier.Do(ctx, func() error {
		cancel()
		return errors.New("operation error after cancel")
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestRetry_BackoffDelay(t *testing.T) {
	retrier := NewRetrier(&Config{
		MaxRetries:    2,
		BackoffFactor: 2.0,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		Jitter:        10 * time.Millisecond,
	})

	start := time.Now()
	counter := 0
	_ = retrier.Do(context.Background(), func() error {
		counter++
		return errors.New("error")
	})
	elapsed := time.Since(start)

	// Two delays: 50ms and 100ms, each plus up to 10ms jitter.
	assert.Equal(t, 3, counter)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 400*time.Millisecond)
}
