package observability

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.UploadsTotal.WithLabelValues("success").Inc()

	if got := testutil.ToFloat64(a.UploadsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("a uploads_total{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.UploadsTotal.WithLabelValues("success")); got != 0 {
		t.Errorf("b uploads_total{success} = %v, want 0", got)
	}
}

func TestMetrics_Names(t *testing.T) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)

	m.UploadsTotal.WithLabelValues("partial").Inc()
	m.RowsSkipped.WithLabelValues("invalid coordinates").Add(2)
	m.QueriesTotal.WithLabelValues("lookup", "hit").Inc()
	m.IndexedPostalCodes.Set(4)

	expected := `
# HELP storemap_indexed_postal_codes Distinct postal codes in the current index.
# TYPE storemap_indexed_postal_codes gauge
storemap_indexed_postal_codes 4
# HELP storemap_rows_skipped_total CSV lines rejected by a validation rule.
# TYPE storemap_rows_skipped_total counter
storemap_rows_skipped_total{reason="invalid coordinates"} 2
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"storemap_indexed_postal_codes", "storemap_rows_skipped_total")
	if err != nil {
		t.Errorf("GatherAndCompare() error = %v", err)
	}

	if n := testutil.CollectAndCount(m.QueriesTotal); n != 1 {
		t.Errorf("queries_total series = %d, want 1", n)
	}
}
