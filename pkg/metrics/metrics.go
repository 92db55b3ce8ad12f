package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the Prometheus collectors for geocoding lookups.
type Metrics struct {
	Lookups        *prometheus.CounterVec   // labels: operation={geocode,reverse,place,place_reverse}, outcome={found,not_found,error}
	LookupDuration *prometheus.HistogramVec // labels: operation
}

// New creates the lookup metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geofarm",
			Name:      "lookups_total",
			Help:      "Geocoding lookups by operation and outcome.",
		}, []string{"operation", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geofarm",
			Name:      "lookup_duration_seconds",
			Help:      "Geocoding lookup duration in seconds, including the provider call.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}

	if reg != nil {
		reg.MustRegister(m.Lookups, m.LookupDuration)
	}

	return m
}

// NewForTesting creates unregistered metrics so tests can build as many as
// they need.
func NewForTesting() *Metrics {
	return New(nil)
}

func (m *Metrics) ObserveLookup(operation, outcome string, elapsed time.Duration) {
	m.Lookups.WithLabelValues(operation, outcome).Inc()
	m.LookupDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
