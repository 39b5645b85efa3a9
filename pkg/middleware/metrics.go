package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewguard",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewguard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "reviewguard",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		},
		[]string{"service"},
	)
)

// Metrics records request counts, latency and in-flight requests
func Metrics(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		inFlight := httpRequestsInFlight.WithLabelValues(serviceName)
		inFlight.Inc()
		defer inFlight.Dec()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "not_found"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(serviceName, method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(serviceName, method, endpoint).Observe(time.Since(start).Seconds())
	}
}
