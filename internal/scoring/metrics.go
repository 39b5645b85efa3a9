package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewsScoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "review_scoring_total",
		Help:      "Reviews scored, by outcome (genuine, fake, degraded)",
	}, []string{"outcome"})

	patternDetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "review_pattern_detections_total",
		Help:      "Pattern detections above threshold",
	}, []string{"pattern"})

	scoringFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "review_scoring_fallbacks_total",
		Help:      "Times a default was substituted for a failed collaborator",
	}, []string{"reason"})

	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reviewguard",
		Name:      "review_scoring_duration_seconds",
		Help:      "Time to score one review including predictor calls",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	batchSizeHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reviewguard",
		Name:      "review_batch_size",
		Help:      "Number of reviews per batch request",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
	})
)

func recordOutcome(outcome string) {
	reviewsScoredTotal.WithLabelValues(outcome).Inc()
}

func recordFallback(reason string) {
	scoringFallbacksTotal.WithLabelValues(reason).Inc()
}
