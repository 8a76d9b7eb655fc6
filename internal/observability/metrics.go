// Package observability holds the Prometheus metrics for uploads and queries.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storemap"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	UploadsTotal  *prometheus.CounterVec // labels: outcome={success,partial,no_data,empty,read_error,rejected}
	RowsProcessed prometheus.Counter
	RowsSkipped   *prometheus.CounterVec // labels: reason
	ParseDuration prometheus.Histogram

	// Current index size.
	IndexedPostalCodes prometheus.Gauge
	IndexedStores      prometheus.Gauge

	QueriesTotal *prometheus.CounterVec // labels: kind={lookup,search}, outcome={hit,miss,invalid}
}

func newMetrics() *Metrics {
	return &Metrics{
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_processed_total",
			Help:      "Non-blank CSV lines that reached validation.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "CSV lines rejected by a validation rule.",
		}, []string{"reason"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Duration of reading and indexing one upload.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		IndexedPostalCodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_postal_codes",
			Help:      "Distinct postal codes in the current index.",
		}),
		IndexedStores: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_stores",
			Help:      "Store entries in the current index.",
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Lookups and searches by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.UploadsTotal,
		m.RowsProcessed,
		m.RowsSkipped,
		m.ParseDuration,
		m.IndexedPostalCodes,
		m.IndexedStores,
		m.QueriesTotal,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
