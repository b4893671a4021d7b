package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for asset registry lookups.
type Metrics struct {
	LookupDuration *prometheus.HistogramVec
	LookupErrors   *prometheus.CounterVec
}

// New creates and registers the asset lookup metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg; tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "redeemer_asset_lookup_duration_seconds",
			Help:    "Duration of asset registry lookups by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}), // operation: "exists", "holder_of"
		LookupErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "redeemer_asset_lookup_errors_total",
			Help: "Asset registry lookups that failed, by operation and kind",
		}, []string{"operation", "kind"}), // kind: "not_found", "infrastructure"
	}
}

// ObserveLookup records the duration of one lookup.
func (m *Metrics) ObserveLookup(operation string, start time.Time) {
	if m != nil {
		m.LookupDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// IncrementLookupError records a failed lookup.
func (m *Metrics) IncrementLookupError(operation, kind string) {
	if m != nil {
		m.LookupErrors.WithLabelValues(operation, kind).Inc()
	}
}
