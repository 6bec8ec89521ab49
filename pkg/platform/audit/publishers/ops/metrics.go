package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Tracked             prometheus.Counter
	Dropped             prometheus.Counter
	PersistFailures     prometheus.Counter
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Tracked: f.NewCounter(prometheus.CounterOpts{
			Name: "siteops_audit_ops_tracked_total",
			Help: "Operational audit events persisted",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "siteops_audit_ops_dropped_total",
			Help: "Operational audit events dropped while the store breaker was open",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "siteops_audit_ops_persist_failures_total",
			Help: "Operational audit events that failed to persist",
		}),
		CircuitBreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "siteops_audit_ops_circuit_breaker_state",
			Help: "Ops audit store breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if open {
		m.CircuitBreakerState.Set(1)
		return
	}
	m.CircuitBreakerState.Set(0)
}
