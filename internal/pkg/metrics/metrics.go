// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "govstatus"

var (
	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status_code"},
	)

	// TimelineQueries counts timeline and uptime computations by outcome.
	TimelineQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "queries_total",
			Help:      "Timeline aggregation queries by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// CatalogRecords reports the size of the loaded catalog tables.
	CatalogRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "records",
			Help:      "Number of records loaded into the catalog by table",
		},
		[]string{"table"},
	)
)

// RecordCatalogSize updates the catalog size gauges.
func RecordCatalogSize(incidents, services int) {
	CatalogRecords.WithLabelValues("incidents").Set(float64(incidents))
	CatalogRecords.WithLabelValues("services").Set(float64(services))
}
