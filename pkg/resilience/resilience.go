package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"voicebridge-backend/pkg/logger"
	"voicebridge-backend/pkg/metrics"
)

// BreakerState represents the state of the circuit breaker
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerHalfOpen BreakerState = "half_open"
	BreakerOpen     BreakerState = "open"
)

// ErrBreakerOpen is returned when the breaker rejects a call without
// attempting it. Callers map it to their unavailable error.
var ErrBreakerOpen = errors.New("circuit breaker open")

const (
	failureThreshold = 3
	cooldown         = 10 * time.Second
	halfOpenMax      = 3
)

// Breaker guards calls to an external dependency. After failureThreshold
// consecutive failures it rejects calls outright until the cooldown elapses,
// then lets a few probes through before fully closing again. Safe for
// concurrent use.
type Breaker struct {
	mu                  sync.Mutex
	name                string
	state               BreakerState
	consecutiveFailures int
	lastFailureTime     time.Time
	halfOpenAttempts    int
	metrics             *metrics.Metrics
}

// NewBreaker creates a closed breaker. metrics may be nil.
func NewBreaker(name string, m *metrics.Metrics) *Breaker {
	return &Breaker{
		name:    name,
		state:   BreakerClosed,
		metrics: m,
	}
}

// Execute runs fn under the breaker. When the breaker is open the call is
// rejected with ErrBreakerOpen without invoking fn. Context errors count as
// failures like any other.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	if err != nil {
		b.recordFailure()
		return err
	}

	b.recordSuccess()
	return nil
}

// State returns the current breaker state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if time.Since(b.lastFailureTime) < cooldown {
			return ErrBreakerOpen
		}
		// Cooldown elapsed, probe the dependency
		b.setState(BreakerHalfOpen)
		b.halfOpenAttempts = 0
		fallthrough
	case BreakerHalfOpen:
		if b.halfOpenAttempts >= halfOpenMax {
			return ErrBreakerOpen
		}
		b.halfOpenAttempts++
	}

	return nil
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != BreakerClosed {
		b.setState(BreakerClosed)
	}
	b.consecutiveFailures = 0
	b.halfOpenAttempts = 0
	b.lastFailureTime = time.Time{}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	b.lastFailureTime = time.Now()

	if b.state == BreakerHalfOpen || b.consecutiveFailures >= failureThreshold {
		b.setState(BreakerOpen)
	}
}

// setState transitions the breaker and records the change. Caller holds b.mu.
func (b *Breaker) setState(state BreakerState) {
	if b.state == state {
		return
	}
	b.state = state

	if b.metrics != nil {
		b.metrics.RecordBreakerState(stateValue(state))
	}

	switch state {
	case BreakerOpen:
		logger.Error("circuit breaker open",
			zap.String("breaker", b.name),
			zap.Int("consecutive_failures", b.consecutiveFailures),
		)
	case BreakerHalfOpen:
		logger.Warn("circuit breaker half-open, probing",
			zap.String("breaker", b.name),
		)
	case BreakerClosed:
		logger.Info("circuit breaker closed",
			zap.String("breaker", b.name),
		)
	}
}

func stateValue(state BreakerState) float64 {
	switch state {
	case BreakerHalfOpen:
		return 1
	case BreakerOpen:
		return 2
	default:
		return 0
	}
}
