package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the acknowledgment module.
// Tracks transitions, reconciliation conflicts, queue sizes and delivery outcomes.
type Metrics struct {
	Transitions         *prometheus.CounterVec
	ReconcileDuration   prometheus.Histogram
	ReconcileConflicts  prometheus.Counter
	AssignmentsChanged  *prometheus.CounterVec
	QueueBlockingDepth  prometheus.Histogram
	Deliveries          *prometheus.CounterVec
	DeliveryBreakerOpen prometheus.Gauge
}

// New registers the acknowledgment metrics with reg, or the default registry
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siteops_acknowledgment_transitions_total",
			Help: "Acknowledgment state changes by target status and outcome (changed or noop)",
		}, []string{"status", "outcome"}),
		ReconcileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteops_reconcile_duration_seconds",
			Help:    "Duration of ReconcileAssignment including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		ReconcileConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "siteops_reconcile_conflicts_total",
			Help: "Reconciliation attempts aborted by a concurrent writer",
		}),
		AssignmentsChanged: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siteops_assignments_changed_total",
			Help: "Acknowledgment records added or removed by reconciliation",
		}, []string{"change"}),
		QueueBlockingDepth: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "siteops_obligation_queue_blocking_items",
			Help:    "Blocking items in a computed obligation queue",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		}),
		Deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "siteops_notification_deliveries_total",
			Help: "Notification delivery outcomes (sent, failed, skipped)",
		}, []string{"status"}),
		DeliveryBreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "siteops_notification_breaker_open",
			Help: "Notification channel breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) ObserveTransition(status string, changed bool) {
	outcome := "noop"
	if changed {
		outcome = "changed"
	}
	m.Transitions.WithLabelValues(status, outcome).Inc()
}

// ObserveReconcile records the duration of a ReconcileAssignment call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveReconcile(start time.Time) {
	m.ReconcileDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementReconcileConflict() {
	m.ReconcileConflicts.Inc()
}

func (m *Metrics) ObserveAssignments(added, removed int) {
	m.AssignmentsChanged.WithLabelValues("added").Add(float64(added))
	m.AssignmentsChanged.WithLabelValues("removed").Add(float64(removed))
}

func (m *Metrics) ObserveQueue(blocking int) {
	m.QueueBlockingDepth.Observe(float64(blocking))
}

func (m *Metrics) ObserveDelivery(status string) {
	m.Deliveries.WithLabelValues(status).Inc()
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.DeliveryBreakerOpen.Set(1)
		return
	}
	m.DeliveryBreakerOpen.Set(0)
}
