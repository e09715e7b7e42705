package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "agora",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound AI requests",
	}, []string{"provider", "operation"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "agora",
		Subsystem: "ai",
		Name:      "failures_total",
		Help:      "Number of failed outbound AI requests",
	}, []string{"provider", "operation"})
)
