package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	breakerStateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "reviewguard",
		Name:      "circuit_breaker_state",
		Help:      "Breaker state: 0 closed, 0.5 half-open, 1 open",
	}, []string{"breaker"})

	breakerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "circuit_breaker_requests_total",
		Help:      "Calls routed through a circuit breaker",
	}, []string{"breaker"})

	breakerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "circuit_breaker_failures_total",
		Help:      "Breaker calls that returned an error",
	}, []string{"breaker"})

	breakerFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "circuit_breaker_fallbacks_total",
		Help:      "Calls rejected by an open or half-open breaker",
	}, []string{"breaker"})

	breakerStateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "circuit_breaker_state_changes_total",
		Help:      "Breaker state transitions",
	}, []string{"breaker", "from", "to"})
)

var breakerStateValues = map[gobreaker.State]float64{
	gobreaker.StateClosed:   0,
	gobreaker.StateHalfOpen: 0.5,
	gobreaker.StateOpen:     1,
}

func recordBreakerState(name string, state gobreaker.State) {
	v, ok := breakerStateValues[state]
	if !ok {
		v = -1
	}
	breakerStateGauge.WithLabelValues(name).Set(v)
}

func recordBreakerStateChange(name string, from, to gobreaker.State) {
	breakerStateTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
	recordBreakerState(name, to)
}

func recordBreakerRequest(name string) {
	breakerRequestsTotal.WithLabelValues(name).Inc()
}

func recordBreakerFailure(name string) {
	breakerFailuresTotal.WithLabelValues(name).Inc()
}

func recordBreakerFallback(name string) {
	breakerFallbacksTotal.WithLabelValues(name).Inc()
}
