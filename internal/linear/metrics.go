package linear

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts Linear API requests.
	// Labels: operation, result (success, error)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linear_mcp",
			Subsystem: "linear",
			Name:      "requests_total",
			Help:      "Total number of Linear API requests",
		},
		[]string{"operation", "result"},
	)

	// RequestDuration tracks Linear API request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "linear_mcp",
			Subsystem: "linear",
			Name:      "request_duration_seconds",
			Help:      "Duration of Linear API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func observeRequest(op string, seconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RequestsTotal.WithLabelValues(op, result).Inc()
	RequestDuration.WithLabelValues(op).Observe(seconds)
}
