package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog service
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests handled by the catalog service",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Duration of catalog HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Read-through cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_events_published_total",
			Help: "Catalog change events by publish outcome",
		},
		[]string{"type", "outcome"},
	)

	// Report client
	ClientRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_client_requests_total",
			Help: "Catalog API requests issued by the report client",
		},
		[]string{"outcome"}, // "ok", "not_found", "transient", "malformed", "rejected"
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "Time spent computing a single report",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report", "status"},
	)
)

// WriteTextfile dumps the default registry in the Prometheus text format,
// for short-lived processes that nothing scrapes.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
