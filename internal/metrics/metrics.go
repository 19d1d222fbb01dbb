// Package metrics provides prometheus instrumentation for roster operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the roster collectors. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// Engine and repository operations by name and outcome
	Operations *prometheus.CounterVec

	// Operation latency by name
	OperationLatency *prometheus.HistogramVec

	// CSV import counters by kind ("rows", "participants", "teams", "missing_member_names")
	ImportRecords *prometheus.CounterVec

	// Current collection sizes by collection ("participants", "teams", "checkins")
	Roster *prometheus.GaugeVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "buildathon_roster_operations_total",
			Help: "Total roster operations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "not_found", "conflict", "invalid", "error"

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "buildathon_roster_operation_duration_seconds",
			Help:    "Duration of roster operations including store reads and writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		ImportRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "buildathon_import_records_total",
			Help: "Records seen by CSV imports by kind",
		}, []string{"kind"}),

		Roster: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "buildathon_roster_size",
			Help: "Current number of entries per roster collection",
		}, []string{"collection"}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveOperation records one operation with its outcome and duration.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m != nil {
		m.Operations.WithLabelValues(operation, outcome).Inc()
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// AddImportRecords adds n to the import counter of the given kind.
func (m *Metrics) AddImportRecords(kind string, n int) {
	if m != nil && n > 0 {
		m.ImportRecords.WithLabelValues(kind).Add(float64(n))
	}
}

// SetRosterSize records the size of the three collections.
func (m *Metrics) SetRosterSize(participants, teams, checkins int) {
	if m != nil {
		m.Roster.WithLabelValues("participants").Set(float64(participants))
		m.Roster.WithLabelValues("teams").Set(float64(teams))
		m.Roster.WithLabelValues("checkins").Set(float64(checkins))
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
