package rtm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vedran77/pulse-mirror/internal/repository"
)

const (
	outcomeHandled = "handled"
	outcomeUnknown = "unknown"
	outcomeMissing = "missing"
	outcomeError   = "error"
)

// Metrics are the dispatcher's Prometheus collectors.
type Metrics struct {
	events   *prometheus.CounterVec
	duration prometheus.Histogram
	records  *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mirror_events_total",
			Help: "Events dispatched, by type and outcome.",
		}, []string{"type", "outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mirror_dispatch_duration_seconds",
			Help:    "Time spent applying one event to the store.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mirror_store_records",
			Help: "Records held in the store, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.events, m.duration, m.records)
	return m
}

func (m *Metrics) observe(t EventType, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(t.String(), outcome).Inc()
	m.duration.Observe(seconds)
}

// setCounts must run on the goroutine that owns the store.
func (m *Metrics) setCounts(c repository.Counts) {
	if m == nil {
		return
	}
	m.records.WithLabelValues("users").Set(float64(c.Users))
	m.records.WithLabelValues("channels").Set(float64(c.Channels))
	m.records.WithLabelValues("groups").Set(float64(c.Groups))
	m.records.WithLabelValues("ims").Set(float64(c.DMs))
	m.records.WithLabelValues("bots").Set(float64(c.Bots))
	m.records.WithLabelValues("teams").Set(float64(c.Teams))
}
