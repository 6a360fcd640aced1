package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CustodyMetrics records outcomes and latency for custody transitions.
type CustodyMetrics struct {
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewCustodyMetrics registers the custody metrics on the provided registerer.
func NewCustodyMetrics(reg prometheus.Registerer) *CustodyMetrics {
	if reg == nil {
		return &CustodyMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "custody_transition_duration_seconds",
		Help:    "Duration of custody transition handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_transitions_total",
		Help: "Custody transition attempts by event and outcome.",
	}, []string{"event", "outcome"})
	reg.MustRegister(duration, transitions)
	return &CustodyMetrics{
		duration:    duration,
		transitions: transitions,
	}
}

// ObserveDuration records the handling time for the named event.
func (c *CustodyMetrics) ObserveDuration(event string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(event)).Observe(duration.Seconds())
}

// IncAccepted increments the accepted counter for the named event.
func (c *CustodyMetrics) IncAccepted(event string) {
	c.inc(event, "accepted")
}

// IncRejected increments the rejected counter for the named event.
func (c *CustodyMetrics) IncRejected(event string) {
	c.inc(event, "rejected")
}

// IncFailed increments the failed counter for the named event.
func (c *CustodyMetrics) IncFailed(event string) {
	c.inc(event, "failed")
}

func (c *CustodyMetrics) inc(event, outcome string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(event), outcome).Inc()
}

func normalizeLabel(event string) string {
	if event == "" {
		return "unknown"
	}
	return event
}
