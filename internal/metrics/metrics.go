// Package metrics exposes Prometheus instrumentation for answer scoring and
// session finalization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OpEvaluate = "evaluate"
	OpFinalize = "finalize"
)

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeGeneration = "generation"
	OutcomeParse      = "parse"
	OutcomeNoData     = "no_data"
	OutcomeError      = "error"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requests       *prometheus.CounterVec
	generation     *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evaluator",
			Name:      "requests_total",
			Help:      "Evaluate and finalize requests by outcome.",
		}, []string{"operation", "outcome"}),
		generation: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "evaluator",
			Name:      "generation_duration_seconds",
			Help:      "Latency of text-generation calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"operation"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "evaluator",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}
}

// Request counts one finished request.
func (m *Metrics) Request(op, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome).Inc()
}

// Generation observes the latency of one generation call.
func (m *Metrics) Generation(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.generation.WithLabelValues(op).Observe(d.Seconds())
}

// ActiveSessions sets the live session gauge.
func (m *Metrics) ActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
