// Package ops provides a best-effort audit tracker for operational events
// such as notification delivery. Track never fails the caller; persistence
// errors are logged and counted, and a circuit breaker sheds load while the
// store is unhealthy.
package ops

import (
	"context"
	"log/slog"
	"time"

	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/circuit"
)

type Tracker struct {
	store   audit.Store
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(t *Tracker) {
		t.breaker = b
	}
}

func New(store audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   store,
		breaker: circuit.New("audit-ops", circuit.WithFailureThreshold(5), circuit.WithCooldown(time.Minute)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track persists event if the store is healthy.
func (t *Tracker) Track(ctx context.Context, event audit.Event) {
	if !t.breaker.Allow() {
		if t.metrics != nil {
			t.metrics.Dropped.Inc()
		}
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.CategoryOperations

	if err := t.store.Append(ctx, event); err != nil {
		_, change := t.breaker.RecordFailure()
		if t.metrics != nil {
			t.metrics.PersistFailures.Inc()
			if change.Opened {
				t.metrics.setBreakerOpen(true)
			}
		}
		if t.logger != nil {
			t.logger.WarnContext(ctx, "ops audit event dropped",
				"action", event.Action,
				"request_id", event.RequestID,
				"breaker_opened", change.Opened,
				"error", err,
			)
		}
		return
	}

	_, change := t.breaker.RecordSuccess()
	if t.metrics != nil {
		t.metrics.Tracked.Inc()
		if change.Closed {
			t.metrics.setBreakerOpen(false)
		}
	}
}
