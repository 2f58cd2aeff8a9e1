package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"voicebridge-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitDefault()
	m.Run()
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	breaker := NewBreaker("test", nil)
	failing := func(ctx context.Context) error { return errors.New("boom") }

	for i := 0; i < failureThreshold; i++ {
		err := breaker.Execute(context.Background(), failing)
		assert.EqualError(t, err, "boom")
	}
	assert.Equal(t, BreakerOpen, breaker.State())

	// While open, calls are rejected without reaching the dependency
	called := false
	err := breaker.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResets(t *testing.T) {
	breaker := NewBreaker("test", nil)

	err := breaker.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	assert.Error(t, err)

	err = breaker.Execute(context.Background(), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, BreakerClosed, breaker.State())

	// The earlier failure no longer counts toward the threshold
	for i := 0; i < failureThreshold-1; i++ {
		breaker.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	}
	assert.Equal(t, BreakerClosed, breaker.State())
}

func TestBreaker_HalfOpenAfterCooldown(t *testing.T) {
	breaker := NewBreaker("test", nil)
	for i := 0; i < failureThreshold; i++ {
		breaker.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	}
	assert.Equal(t, BreakerOpen, breaker.State())

	// Age the last failure past the cooldown instead of sleeping
	breaker.mu.Lock()
	breaker.lastFailureTime = breaker.lastFailureTime.Add(-2 * cooldown)
	breaker.mu.Unlock()

	err := breaker.Execute(context.Background(), func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, BreakerClosed, breaker.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	breaker := NewBreaker("test", nil)
	for i := 0; i < failureThreshold; i++ {
		breaker.Execute(context.Background(), func(ctx context.Context) error { return errors.New("boom") })
	}

	breaker.mu.Lock()
	breaker.lastFailureTime = breaker.lastFailureTime.Add(-2 * cooldown)
	breaker.mu.Unlock()

	err := breaker.Execute(context.Background(), func(ctx context.Context) error { return errors.New("still down") })
	assert.EqualError(t, err, "still down")
	assert.Equal(t, BreakerOpen, breaker.State())
}
