package directory

import (
	"context"
	"errors"
	"log/slog"

	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/sentinel"
	"siteops/pkg/requestcontext"
)

type Store interface {
	Upsert(ctx context.Context, user *User) error
	Find(ctx context.Context, userID id.UserID) (*User, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// TxRunner scopes the upsert and its audit record to one unit of work.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTx struct{}

func (noTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

// Service applies directory sync writes.
type Service struct {
	store   Store
	tx      TxRunner
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithTx(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, tx: noTx{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync stores the user as given by the external directory.
func (s *Service) Sync(ctx context.Context, user *User) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Upsert(ctx, user); err != nil {
			return err
		}
		if s.auditor == nil {
			return nil
		}
		return s.auditor.Emit(ctx, audit.Event{
			Timestamp: requestcontext.Now(ctx),
			UserID:    user.ID,
			Action:    string(audit.EventDirectoryUserSynced),
			RequestID: requestcontext.RequestID(ctx),
			ActorID:   "directory-sync",
		})
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeTimeout) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to sync directory user")
	}
	s.logger.InfoContext(ctx, "directory user synced",
		"user_id", user.ID,
		"active", user.Active,
		"roles", user.Roles,
	)
	return nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*User, error) {
	u, err := s.store.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}
