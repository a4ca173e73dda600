// Package telemetry registers the Prometheus collectors exposed on
// /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide collectors.
type Metrics struct {
	RowsImported   *prometheus.CounterVec
	ImportFailures *prometheus.CounterVec
	ImportDuration prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates and registers all collectors under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		RowsImported: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_imported_total",
				Help:      "Rows successfully imported, by record kind",
			},
			[]string{"kind"},
		),
		ImportFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_failures_total",
				Help:      "Failed imports, by error class",
			},
			[]string{"reason"},
		),
		ImportDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_duration_seconds",
				Help:      "Wall time of a full import run",
				Buckets:   prometheus.DefBuckets,
			},
		),
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests, by path and status",
			},
			[]string{"path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency, by path",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}
}

// AddRows is nil-safe so library code can run without telemetry wired.
func (m *Metrics) AddRows(kind string, n int) {
	if m == nil {
		return
	}
	m.RowsImported.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) Failure(reason string) {
	if m == nil {
		return
	}
	m.ImportFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveImport(seconds float64) {
	if m == nil {
		return
	}
	m.ImportDuration.Observe(seconds)
}
