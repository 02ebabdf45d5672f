package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dam-levels service.
type Metrics struct {
	// Sheet loading metrics.
	SheetFetches       *prometheus.CounterVec // labels: outcome={success,error}
	SheetFetchDuration prometheus.Histogram

	// Snapshot cache metrics.
	CacheRequests *prometheus.CounterVec // labels: result={hit,miss,stale,error}

	// Pipeline metrics.
	SnapshotRows       prometheus.Gauge
	FieldParseFailures *prometheus.CounterVec // labels: field={date,spill_diff,numeric}
	RefreshRuns        *prometheus.CounterVec // labels: outcome={success,error}

	// HTTP API metrics.
	HTTPRequests        *prometheus.CounterVec // labels: endpoint, method, status
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SheetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "sheet_fetches_total",
			Help:      "CSV export downloads by outcome.",
		}, []string{"outcome"}),
		SheetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dam_levels",
			Name:      "sheet_fetch_duration_seconds",
			Help:      "Duration of a CSV export download and parse.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "cache_requests_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		SnapshotRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dam_levels",
			Name:      "snapshot_rows",
			Help:      "Readings in the most recently built snapshot.",
		}),
		FieldParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "field_parse_failures_total",
			Help:      "Cells that failed coercion during derivation, by field.",
		}, []string{"field"}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "refresh_runs_total",
			Help:      "Background snapshot refreshes by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dam_levels",
			Name:      "http_requests_total",
			Help:      "API requests by endpoint, method, and status code.",
		}, []string{"endpoint", "method", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dam_levels",
			Name:      "http_request_duration_seconds",
			Help:      "API request duration by endpoint.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"endpoint"}),
	}

	prometheus.MustRegister(
		m.SheetFetches,
		m.SheetFetchDuration,
		m.CacheRequests,
		m.SnapshotRows,
		m.FieldParseFailures,
		m.RefreshRuns,
		m.HTTPRequests,
		m.HTTPRequestDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SheetFetches:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dam_levels", Name: "sheet_fetches_total"}, []string{"outcome"}),
		SheetFetchDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "dam_levels", Name: "sheet_fetch_duration_seconds"}),
		CacheRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dam_levels", Name: "cache_requests_total"}, []string{"result"}),
		SnapshotRows:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "dam_levels", Name: "snapshot_rows"}),
		FieldParseFailures:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dam_levels", Name: "field_parse_failures_total"}, []string{"field"}),
		RefreshRuns:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dam_levels", Name: "refresh_runs_total"}, []string{"outcome"}),
		HTTPRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "dam_levels", Name: "http_requests_total"}, []string{"endpoint", "method", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "dam_levels", Name: "http_request_duration_seconds"}, []string{"endpoint"}),
	}
}
