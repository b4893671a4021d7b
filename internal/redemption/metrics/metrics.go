package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for redemption attempts.
const (
	OutcomeRedeemed      = "redeemed"
	OutcomeUnredeemable  = "unredeemable"
	OutcomeAssetNotFound = "asset_not_found"
	OutcomeError         = "error"
)

// Metrics provides observability for the redemption module.
type Metrics struct {
	// Redemption attempts by outcome
	Outcomes *prometheus.CounterVec

	// End-to-end Redeem latency including the asset lookup
	RedeemLatency prometheus.Histogram

	// Read-side queries by kind
	Queries *prometheus.CounterVec
}

// New creates a new Metrics instance registered on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "redeemer_redemption_outcomes_total",
			Help: "Total redemption attempts by outcome",
		}, []string{"outcome"}),

		RedeemLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "redeemer_redemption_redeem_duration_seconds",
			Help:    "Duration of redeem operations including the holder lookup",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "redeemer_redemption_queries_total",
			Help: "Total read-side redemption queries by kind",
		}, []string{"query"}), // query: "is_redeemed", "get", "redemption_ids", "redeemable"
	}
}

// IncrementOutcome records one redemption attempt.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveRedeemLatency records the duration of a Redeem call.
func (m *Metrics) ObserveRedeemLatency(d time.Duration) {
	if m != nil {
		m.RedeemLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementQuery(query string) {
	if m != nil {
		m.Queries.WithLabelValues(query).Inc()
	}
}
