package resilience

import (
	"time"

	"github.com/richxcame/review-guard/pkg/config"
)

const (
	defaultBreakerInterval  = time.Minute
	defaultBreakerOpenFor   = 30 * time.Second
	defaultBreakerFailures  = 5
	defaultBreakerSuccesses = 1
)

// PredictorSettings derives breaker settings from the predictor tuning knobs.
// Any non-positive knob takes its default.
func PredictorSettings(name string, cfg config.PredictorConfig) Settings {
	return Settings{
		Name:             name,
		Interval:         secondsOr(cfg.BreakerIntervalSeconds, defaultBreakerInterval),
		Timeout:          secondsOr(cfg.BreakerTimeoutSeconds, defaultBreakerOpenFor),
		FailureThreshold: countOr(cfg.BreakerFailureThreshold, defaultBreakerFailures),
		SuccessThreshold: countOr(cfg.BreakerSuccessThreshold, defaultBreakerSuccesses),
	}
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func countOr(n int, fallback uint32) uint32 {
	if n <= 0 {
		return fallback
	}
	return uint32(n)
}
