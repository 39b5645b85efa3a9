package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when the breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// FallbackFunc runs in place of an operation the breaker rejected.
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// NoopFallback returns ErrCircuitOpen.
func NoopFallback(ctx context.Context, err error) (interface{}, error) {
	return nil, ErrCircuitOpen
}

// WarnAndReject logs the rejection against dependency and returns ErrCircuitOpen,
// leaving the caller to apply its own defaults.
func WarnAndReject(dependency string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("dependency unavailable, call rejected by breaker",
			zap.String("dependency", dependency),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}

// Operation is a unit of work guarded by a breaker or retried.
type Operation func(ctx context.Context) (interface{}, error)

// Settings configures a circuit breaker.
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// CircuitBreaker wraps gobreaker with metrics and a fallback.
type CircuitBreaker struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	fallback FallbackFunc
}

// NewCircuitBreaker builds a breaker that trips after FailureThreshold consecutive failures.
func NewCircuitBreaker(settings Settings, fallback FallbackFunc) *CircuitBreaker {
	name := settings.Name
	if name == "" {
		name = "default"
	}
	if fallback == nil {
		fallback = NoopFallback
	}

	failureThreshold := max(settings.FailureThreshold, 1)
	successThreshold := max(settings.SuccessThreshold, 1)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: successThreshold,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			recordBreakerStateChange(name, from, to)
		},
		// Caller cancellation says nothing about the downstream's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	recordBreakerState(name, gobreaker.StateClosed)

	return &CircuitBreaker{name: name, cb: cb, fallback: fallback}
}

// Name returns the breaker's metric label.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// State reports the current breaker state.
func (b *CircuitBreaker) State() gobreaker.State {
	return b.cb.State()
}

// Execute runs op through the breaker, invoking the fallback when the breaker rejects it.
func (b *CircuitBreaker) Execute(ctx context.Context, op Operation) (interface{}, error) {
	recordBreakerRequest(b.name)

	result, err := b.cb.Execute(func() (interface{}, error) {
		return op(ctx)
	})
	if err == nil {
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordBreakerFallback(b.name)
		return b.fallback(ctx, err)
	}

	recordBreakerFailure(b.name)
	return nil, err
}

// Ping reports ErrCircuitOpen while the breaker is open.
func (b *CircuitBreaker) Ping(ctx context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return nil
}
