package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var alertsRaised = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "reviewguard",
		Name:      "alerts_raised_total",
		Help:      "Moderation alerts raised by type and level",
	},
	[]string{"type", "level"},
)
