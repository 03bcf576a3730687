// Package telemetry provides Prometheus metrics for report generation.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "itemreport"

// Metrics holds the report generation counters.
type Metrics struct {
	ReportsTotal  *prometheus.CounterVec
	ItemsRendered *prometheus.CounterVec
	ItemsFlagged  prometheus.Counter
	ErrorsTotal   *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports generated, by report type.",
		}, []string{"type"}),
		ItemsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_rendered_total",
			Help:      "Visible items written to reports, by report type.",
		}, []string{"type"}),
		ItemsFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_flagged_total",
			Help:      "Items rendered with the priority flag set.",
		}),
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_errors_total",
			Help:      "Failed report generations, by reason.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{m.ReportsTotal, m.ItemsRendered, m.ItemsFlagged, m.ErrorsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}
	return m, nil
}

// ObserveReport records one successful report run. It is safe on a nil receiver.
func (m *Metrics) ObserveReport(reportType string, rendered, flagged int) {
	if m == nil {
		return
	}
	m.ReportsTotal.WithLabelValues(reportType).Inc()
	m.ItemsRendered.WithLabelValues(reportType).Add(float64(rendered))
	m.ItemsFlagged.Add(float64(flagged))
}

// ObserveError records a failed report run. It is safe on a nil receiver.
func (m *Metrics) ObserveError(reason string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(reason).Inc()
}

// WriteTextfile writes every metric gathered from g to path in the Prometheus
// text format, for pickup by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
