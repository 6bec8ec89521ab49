package sequencer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
)

type ObligationSource interface {
	ListOutstanding(ctx context.Context, userID id.UserID) ([]models.Obligation, error)
}

// GateStatus is the result of the credential-change precondition check.
type GateStatus struct {
	Satisfied bool
	Reason    string
}

// Gate is the precondition checked before any obligation is presented, such
// as a required password change.
type Gate interface {
	Check(ctx context.Context, userID id.UserID) (GateStatus, error)
}

type openGate struct{}

func (openGate) Check(context.Context, id.UserID) (GateStatus, error) {
	return GateStatus{Satisfied: true}, nil
}

const (
	defaultMaxAttempts     = 3
	defaultInitialInterval = 50 * time.Millisecond
	defaultMaxInterval     = time.Second
)

type Sequencer struct {
	source          ObligationSource
	gate            Gate
	logger          *slog.Logger
	maxAttempts     int
	initialInterval time.Duration
}

type Option func(*Sequencer)

func WithGate(g Gate) Option {
	return func(s *Sequencer) {
		if g != nil {
			s.gate = g
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) { s.logger = logger }
}

// WithRetry sets how many times the obligation query is attempted and the
// first backoff interval.
func WithRetry(maxAttempts int, initial time.Duration) Option {
	return func(s *Sequencer) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if initial > 0 {
			s.initialInterval = initial
		}
	}
}

func New(source ObligationSource, opts ...Option) *Sequencer {
	s := &Sequencer{
		source:          source,
		gate:            openGate{},
		logger:          slog.Default(),
		maxAttempts:     defaultMaxAttempts,
		initialInterval: defaultInitialInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Queue computes the user's queue. Gate and store failures are returned as
// errors, never as an empty queue.
func (s *Sequencer) Queue(ctx context.Context, userID id.UserID) (*Queue, error) {
	status, err := s.gate.Check(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "credential gate check failed",
			"user_id", userID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to check session preconditions")
	}
	if !status.Satisfied {
		return Gated(userID, status.Reason), nil
	}

	obligations, err := s.loadWithRetry(ctx, userID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "obligation query cancelled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load obligations")
	}
	return Build(userID, obligations), nil
}

func (s *Sequencer) loadWithRetry(ctx context.Context, userID id.UserID) ([]models.Obligation, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.initialInterval
	exp.MaxInterval = defaultMaxInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(s.maxAttempts-1)), ctx)

	attempt := 0
	return backoff.RetryWithData(func() ([]models.Obligation, error) {
		attempt++
		obligations, err := s.source.ListOutstanding(ctx, userID)
		if err == nil {
			return obligations, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, backoff.Permanent(err)
		}
		s.logger.WarnContext(ctx, "obligation query failed",
			"user_id", userID,
			"attempt", attempt,
			"error", err,
		)
		return nil, err
	}, policy)
}
