package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "govstatus"

var (
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitoring",
			Name:      "checks_total",
			Help:      "Service status checks by service and resulting status",
		},
		[]string{"service", "status"},
	)

	checkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "monitoring",
			Name:      "check_duration_seconds",
			Help:      "Time to determine a service status, retries included",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	checkRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitoring",
			Name:      "check_retries_total",
			Help:      "Status check attempts that were retried",
		},
		[]string{"service"},
	)
)

func recordCheck(serviceID, status string, duration time.Duration) {
	checksTotal.WithLabelValues(serviceID, status).Inc()
	checkDuration.WithLabelValues(serviceID).Observe(duration.Seconds())
}

func recordRetry(serviceID string) {
	checkRetries.WithLabelValues(serviceID).Inc()
}
