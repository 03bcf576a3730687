package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	m.ObserveReport("CSV", 3, 1)
	m.ObserveReport("CSV", 2, 0)
	m.ObserveReport("HTML", 1, 1)
	m.ObserveError("unsupported_type")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("CSV")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("HTML")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ItemsRendered.WithLabelValues("CSV")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ItemsFlagged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("unsupported_type")))
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReport("CSV", 1, 1)
		m.ObserveError("x")
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.ObserveReport("HTML", 4, 2)

	path := filepath.Join(t.TempDir(), "itemreport.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `itemreport_reports_total{type="HTML"} 1`)
	assert.Contains(t, string(data), "itemreport_items_flagged_total 2")
}
