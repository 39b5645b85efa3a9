package sellerrisk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "seller_assessments_total",
			Help:      "Seller risk assessments by resulting level",
		},
		[]string{"level"},
	)

	assessmentScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reviewguard",
			Name:      "seller_risk_score",
			Help:      "Distribution of seller review risk scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	persistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "seller_assessment_persist_failures_total",
			Help:      "Assessments that could not be written to history",
		},
	)

	archiveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "seller_report_archive_failures_total",
			Help:      "Assessments that could not be archived to object storage",
		},
	)
)
