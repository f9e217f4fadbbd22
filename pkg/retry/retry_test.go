package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var errTransient = errors.New("transient")

func fastConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2,
		Retryable:  func(err error) bool { return errors.Is(err, errTransient) },
	}
}

func TestExecute(t *testing.T) {
	t.Run("Succeeds After Retries", func(t *testing.T) {
		r := New(fastConfig(), zap.NewNop())
		calls := 0
		err := r.Execute(context.Background(), "test", func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Stops On Non Retryable", func(t *testing.T) {
		r := New(fastConfig(), zap.NewNop())
		permanent := errors.New("permanent")
		calls := 0
		err := r.Execute(context.Background(), "test", func(ctx context.Context) error {
			calls++
			return permanent
		})
		assert.Equal(t, permanent, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("Gives Up", func(t *testing.T) {
		r := New(fastConfig(), zap.NewNop())
		calls := 0
		err := r.Execute(context.Background(), "test", func(ctx context.Context) error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 4, calls)
	})

	t.Run("Context Cancelled", func(t *testing.T) {
		r := New(fastConfig(), zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := r.Execute(ctx, "test", func(ctx context.Context) error {
			t.Fatal("must not run")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDelayIsCapped(t *testing.T) {
	r := New(Config{BaseDelay: time.Second, MaxDelay: 2 * time.Second, Multiplier: 10}, nil)
	assert.Equal(t, time.Second, r.delay(0))
	assert.Equal(t, 2*time.Second, r.delay(3))
}
