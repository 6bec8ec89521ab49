// Package service orchestrates the acknowledgment workflow: document
// creation, recipient reconciliation, view and sign transitions, the blocking
// queue, and notification fan-out.
//
// Stores report facts through sentinel errors; this package translates them
// into domain errors. Compliance audit events are written inside the same
// unit of work as the change they describe.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"siteops/internal/acknowledgment/models"
	"siteops/internal/acknowledgment/notify"
	"siteops/internal/acknowledgment/readprogress"
	"siteops/internal/acknowledgment/recipients"
	"siteops/internal/acknowledgment/reconcile"
	"siteops/internal/acknowledgment/sequencer"
	"siteops/internal/acknowledgment/signature"
	"siteops/internal/platform/tracing"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/sentinel"
	"siteops/pkg/requestcontext"
)

type Store interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	FindDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	LockDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListAcknowledgments(ctx context.Context, docID id.DocumentID) ([]*models.Acknowledgment, error)
	FindAcknowledgment(ctx context.Context, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, error)
	InsertPending(ctx context.Context, docID id.DocumentID, recipients []id.UserID, at time.Time) (int, error)
	DeleteUnsigned(ctx context.Context, docID id.DocumentID, recipients []id.UserID) (int, error)
	MarkViewed(ctx context.Context, docID id.DocumentID, userID id.UserID, at time.Time) (*models.Acknowledgment, bool, error)
	MarkSigned(ctx context.Context, docID id.DocumentID, userID id.UserID, capture models.SignatureCapture, from []models.Status) (*models.Acknowledgment, bool, error)
}

type Resolver interface {
	Resolve(ctx context.Context, sel recipients.Selection) ([]id.UserID, error)
}

type Notifier interface {
	NotifyRecipients(ctx context.Context, doc *models.Document, recipients []id.UserID) *notify.DeliveryReport
	RemindRecipients(ctx context.Context, doc *models.Document, recipients []id.UserID) *notify.DeliveryReport
}

type QueueBuilder interface {
	Queue(ctx context.Context, userID id.UserID) (*sequencer.Queue, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Metrics interface {
	ObserveTransition(status string, changed bool)
	ObserveReconcile(start time.Time)
	IncrementReconcileConflict()
	ObserveAssignments(added, removed int)
	ObserveQueue(blocking int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(string, bool) {}
func (noopMetrics) ObserveReconcile(time.Time)     {}
func (noopMetrics) IncrementReconcileConflict()    {}
func (noopMetrics) ObserveAssignments(int, int)    {}
func (noopMetrics) ObserveQueue(int)               {}

const (
	defaultReconcileMaxAttempts = 3
	defaultAsyncNotifyTimeout   = time.Minute
)

// CreateDocumentRequest carries a new document and its initial recipients.
type CreateDocumentRequest struct {
	Kind       id.DocumentKind
	Title      string
	Body       string
	ContentRef string
	Mandatory  bool
	CreatedBy  id.UserID
	Recipients recipients.Selection
}

// ReconcileResult reports how an assignment changed. Retained lists signed
// recipients kept although the selection no longer names them. Delivery is
// nil when notification runs asynchronously or nobody was added.
type ReconcileResult struct {
	DocumentID id.DocumentID          `json:"document_id"`
	Added      []id.UserID            `json:"added"`
	Removed    []id.UserID            `json:"removed"`
	Retained   []id.UserID            `json:"retained"`
	Delivery   *notify.DeliveryReport `json:"delivery,omitempty"`
}

type SignRequest struct {
	DocumentID  id.DocumentID
	RecipientID id.UserID
	Signature   string
	Comment     string
	UserAgent   string
}

type Service struct {
	store     Store
	tx        StoreTx
	resolver  Resolver
	notifier  Notifier
	queues    QueueBuilder
	detector  *readprogress.Detector
	auditor   AuditPublisher
	metrics   Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
	txTimeout time.Duration

	reconcileMaxAttempts int
	asyncNotify          bool
	asyncNotifyTimeout   time.Duration

	// mu guards draining so no goroutine is added once Wait has begun.
	mu       sync.Mutex
	draining bool
	inflight sync.WaitGroup
}

type Option func(*Service)

// WithTx sets the transaction runner. Without it units of work are
// serialized per document in process.
func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) { s.txTimeout = d }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithDetector(d *readprogress.Detector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

func WithReconcileMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reconcileMaxAttempts = n
		}
	}
}

// WithAsyncNotification detaches assignment fan-out from the request. Each
// fan-out gets its own timeout; Wait blocks until in-flight fan-outs finish.
func WithAsyncNotification(timeout time.Duration) Option {
	return func(s *Service) {
		s.asyncNotify = true
		if timeout > 0 {
			s.asyncNotifyTimeout = timeout
		}
	}
}

func New(store Store, resolver Resolver, notifier Notifier, queues QueueBuilder, opts ...Option) *Service {
	s := &Service{
		store:                store,
		resolver:             resolver,
		notifier:             notifier,
		queues:               queues,
		detector:             readprogress.New(0, 0),
		metrics:              noopMetrics{},
		tracer:               tracing.Tracer(),
		logger:               slog.Default(),
		reconcileMaxAttempts: defaultReconcileMaxAttempts,
		asyncNotifyTimeout:   defaultAsyncNotifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newShardedTx(s.txTimeout)
	}
	return s
}

// Wait blocks until asynchronous notification fan-outs have finished. Once it
// is called, later assignments notify synchronously instead of detaching.
func (s *Service) Wait() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	s.inflight.Wait()
}

// CreateDocument stores a new document and assigns it to the resolved
// recipients in one unit of work. Notification runs after commit.
func (s *Service) CreateDocument(ctx context.Context, req CreateDocumentRequest) (doc *models.Document, result *ReconcileResult, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "acknowledgment.CreateDocument",
		attribute.String("document.kind", req.Kind.String()))
	defer func() { tracing.End(span, err) }()

	now := requestcontext.Now(ctx)
	doc, err = models.NewDocument(id.NewDocumentID(), req.Kind, req.Title, req.Body, req.ContentRef, req.Mandatory, req.CreatedBy, now)
	if err != nil {
		return nil, nil, dErrors.Recode(err, dErrors.CodeInvariantViolation, dErrors.CodeValidation)
	}
	desired, err := s.resolver.Resolve(ctx, req.Recipients)
	if err != nil {
		return nil, nil, err
	}

	var plan reconcile.Plan
	err = s.tx.RunInTx(withDocument(ctx, doc.ID), func(ctx context.Context) error {
		if err := s.store.CreateDocument(ctx, doc); err != nil {
			return err
		}
		if err := s.emit(ctx, audit.EventDocumentCreated, doc.CreatedBy, doc.ID, doc.Kind.String()); err != nil {
			return err
		}
		var applyErr error
		plan, applyErr = s.applyPlan(ctx, doc.ID, desired, now)
		return applyErr
	})
	if err != nil {
		return nil, nil, translate(err, "document not found", "failed to create document")
	}

	s.metrics.ObserveAssignments(len(plan.ToAdd), len(plan.ToRemove))
	s.logger.InfoContext(ctx, "document created",
		"document_id", doc.ID,
		"kind", doc.Kind,
		"mandatory", doc.Mandatory,
		"recipients", len(plan.ToAdd),
		"request_id", requestcontext.RequestID(ctx),
	)
	result = newResult(doc.ID, plan)
	result.Delivery = s.dispatch(ctx, doc, plan.ToAdd)
	return doc, result, nil
}

// ReconcileAssignment moves the document's recipient set to the current
// resolution of sel. Signed records are never removed. When a concurrent
// writer invalidates the plan the whole diff is recomputed.
func (s *Service) ReconcileAssignment(ctx context.Context, docID id.DocumentID, sel recipients.Selection) (result *ReconcileResult, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "acknowledgment.ReconcileAssignment",
		attribute.String("document.id", docID.String()))
	defer func() { tracing.End(span, err) }()
	defer s.metrics.ObserveReconcile(time.Now())

	desired, err := s.resolver.Resolve(ctx, sel)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var (
		doc  *models.Document
		plan reconcile.Plan
	)
	for attempt := 1; ; attempt++ {
		err = s.tx.RunInTx(withDocument(ctx, docID), func(ctx context.Context) error {
			locked, err := s.store.LockDocument(ctx, docID)
			if err != nil {
				return err
			}
			doc = locked
			var applyErr error
			plan, applyErr = s.applyPlan(ctx, docID, desired, now)
			return applyErr
		})
		if err == nil || !errors.Is(err, sentinel.ErrConflict) || attempt >= s.reconcileMaxAttempts {
			break
		}
		s.metrics.IncrementReconcileConflict()
		s.logger.WarnContext(ctx, "reconcile conflict, retrying",
			"document_id", docID,
			"attempt", attempt,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.metrics.IncrementReconcileConflict()
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "recipients changed concurrently, retry the request")
		}
		return nil, translate(err, "document not found", "failed to reconcile recipients")
	}

	s.metrics.ObserveAssignments(len(plan.ToAdd), len(plan.ToRemove))
	s.logger.InfoContext(ctx, "assignment reconciled",
		"document_id", docID,
		"added", len(plan.ToAdd),
		"removed", len(plan.ToRemove),
		"retained", len(plan.Retained),
		"request_id", requestcontext.RequestID(ctx),
	)
	result = newResult(docID, plan)
	result.Delivery = s.dispatch(ctx, doc, plan.ToAdd)
	return result, nil
}

// applyPlan diffs current records against desired and applies the result.
// A short row count means another writer got there first.
func (s *Service) applyPlan(ctx context.Context, docID id.DocumentID, desired []id.UserID, now time.Time) (reconcile.Plan, error) {
	current, err := s.store.ListAcknowledgments(ctx, docID)
	if err != nil {
		return reconcile.Plan{}, err
	}
	plan := reconcile.Diff(current, desired)

	if len(plan.ToAdd) > 0 {
		n, err := s.store.InsertPending(ctx, docID, plan.ToAdd, now)
		if err != nil {
			return plan, err
		}
		if n != len(plan.ToAdd) {
			return plan, sentinel.ErrConflict
		}
	}
	if len(plan.ToRemove) > 0 {
		n, err := s.store.DeleteUnsigned(ctx, docID, plan.ToRemove)
		if err != nil {
			return plan, err
		}
		if n != len(plan.ToRemove) {
			return plan, sentinel.ErrConflict
		}
	}

	for _, u := range plan.ToAdd {
		if err := s.emit(ctx, audit.EventRecipientAssigned, u, docID, ""); err != nil {
			return plan, err
		}
	}
	for _, u := range plan.ToRemove {
		if err := s.emit(ctx, audit.EventRecipientUnassigned, u, docID, "deselected"); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

func newResult(docID id.DocumentID, plan reconcile.Plan) *ReconcileResult {
	return &ReconcileResult{
		DocumentID: docID,
		Added:      nonNil(plan.ToAdd),
		Removed:    nonNil(plan.ToRemove),
		Retained:   nonNil(plan.Retained),
	}
}

func nonNil(ids []id.UserID) []id.UserID {
	if ids == nil {
		return []id.UserID{}
	}
	return ids
}

// dispatch notifies newly added recipients. In async mode it returns nil and
// the report is logged when the fan-out finishes.
func (s *Service) dispatch(ctx context.Context, doc *models.Document, added []id.UserID) *notify.DeliveryReport {
	if len(added) == 0 {
		return nil
	}
	s.mu.Lock()
	detach := s.asyncNotify && !s.draining
	if detach {
		s.inflight.Add(1)
	}
	s.mu.Unlock()
	if !detach {
		return s.notifier.NotifyRecipients(ctx, doc, added)
	}

	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.asyncNotifyTimeout)
		defer cancel()
		report := s.notifier.NotifyRecipients(ctx, doc, added)
		if report.Failed > 0 {
			s.logger.WarnContext(ctx, "assignment notifications failed",
				"document_id", doc.ID,
				"failed", report.Failed,
				"sent", report.Sent,
				"skipped", report.Skipped,
			)
		}
	}()
	return nil
}

// RecordViewed moves the caller's record from pending to viewed. Repeats and
// documents whose contract has no viewed state are no-op successes.
func (s *Service) RecordViewed(ctx context.Context, docID id.DocumentID, userID id.UserID) (ack *models.Acknowledgment, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "acknowledgment.RecordViewed",
		attribute.String("document.id", docID.String()))
	defer func() { tracing.End(span, err) }()

	doc, err := s.findDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Contract().CollapsedView {
		return s.findAcknowledgment(ctx, docID, userID)
	}
	return s.markViewed(ctx, doc, userID, audit.EventAcknowledgmentView)
}

// Dismiss marks an advisory bulletin as seen without signing it.
func (s *Service) Dismiss(ctx context.Context, docID id.DocumentID, userID id.UserID) (ack *models.Acknowledgment, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "acknowledgment.Dismiss",
		attribute.String("document.id", docID.String()))
	defer func() { tracing.End(span, err) }()

	doc, err := s.findDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !doc.Contract().Dismissible {
		return nil, dErrors.New(dErrors.CodeInvalidState, "only advisory bulletins can be dismissed")
	}
	return s.markViewed(ctx, doc, userID, audit.EventAdvisoryDismissed)
}

// RecordProgress feeds a read-progress signal to the detector and records the
// view once the threshold is met. viewed reports whether it was met.
func (s *Service) RecordProgress(ctx context.Context, docID id.DocumentID, userID id.UserID, sig readprogress.Signal) (viewed bool, ack *models.Acknowledgment, err error) {
	doc, err := s.findDocument(ctx, docID)
	if err != nil {
		return false, nil, err
	}
	ok, err := s.detector.Satisfied(readprogress.RenderingFor(doc), sig)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		ack, err = s.findAcknowledgment(ctx, docID, userID)
		return false, ack, err
	}
	ack, err = s.RecordViewed(ctx, docID, userID)
	if err != nil {
		return false, nil, err
	}
	return true, ack, nil
}

func (s *Service) markViewed(ctx context.Context, doc *models.Document, userID id.UserID, action audit.AuditEvent) (*models.Acknowledgment, error) {
	now := requestcontext.Now(ctx)
	var (
		ack     *models.Acknowledgment
		changed bool
	)
	err := s.tx.RunInTx(withDocument(ctx, doc.ID), func(ctx context.Context) error {
		var err error
		ack, changed, err = s.store.MarkViewed(ctx, doc.ID, userID, now)
		if err != nil || !changed {
			return err
		}
		return s.emit(ctx, action, userID, doc.ID, "")
	})
	if err != nil {
		return nil, translate(err, "acknowledgment not found", "failed to record view")
	}
	s.metrics.ObserveTransition(models.StatusViewed.String(), changed)
	if changed {
		s.logger.InfoContext(ctx, "acknowledgment viewed",
			"document_id", doc.ID,
			"user_id", userID,
			"action", action,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return ack, nil
}

// RecordSignature signs the recipient's record. A repeated signature is a
// no-op success that keeps the first payload. Documents that require viewing
// reject signatures on pending records.
func (s *Service) RecordSignature(ctx context.Context, req SignRequest) (ack *models.Acknowledgment, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "acknowledgment.RecordSignature",
		attribute.String("document.id", req.DocumentID.String()))
	defer func() { tracing.End(span, err) }()

	capture, err := signature.Capture(req.Signature, req.Comment, req.UserAgent, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	doc, err := s.findDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.tx.RunInTx(withDocument(ctx, doc.ID), func(ctx context.Context) error {
		var err error
		ack, changed, err = s.store.MarkSigned(ctx, doc.ID, req.RecipientID, capture, doc.Contract().SignableFrom())
		if err != nil || !changed {
			return err
		}
		return s.emit(ctx, audit.EventAcknowledgmentSign, req.RecipientID, doc.ID, capture.Digest)
	})
	if err != nil {
		return nil, translate(err, "acknowledgment not found", "failed to record signature")
	}
	s.metrics.ObserveTransition(models.StatusSigned.String(), changed)
	if !changed && !ack.IsSigned() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "document must be viewed before signing")
	}
	if changed {
		s.logger.InfoContext(ctx, "acknowledgment signed",
			"document_id", doc.ID,
			"user_id", req.RecipientID,
			"device", capture.Device,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return ack, nil
}

// Unassign removes one recipient's pending or viewed record.
func (s *Service) Unassign(ctx context.Context, docID id.DocumentID, userID id.UserID) (err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "acknowledgment.Unassign",
		attribute.String("document.id", docID.String()))
	defer func() { tracing.End(span, err) }()

	err = s.tx.RunInTx(withDocument(ctx, docID), func(ctx context.Context) error {
		if _, err := s.store.LockDocument(ctx, docID); err != nil {
			return err
		}
		ack, err := s.store.FindAcknowledgment(ctx, docID, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "assignment not found")
			}
			return err
		}
		if ack.IsSigned() {
			return dErrors.New(dErrors.CodeConflict, "signed acknowledgments cannot be unassigned")
		}
		n, err := s.store.DeleteUnsigned(ctx, docID, []id.UserID{userID})
		if err != nil {
			return err
		}
		if n == 0 {
			return dErrors.New(dErrors.CodeConflict, "acknowledgment was signed concurrently")
		}
		return s.emit(ctx, audit.EventRecipientUnassigned, userID, docID, "unassigned")
	})
	if err != nil {
		return translate(err, "document not found", "failed to unassign recipient")
	}
	s.metrics.ObserveAssignments(0, 1)
	s.logger.InfoContext(ctx, "recipient unassigned",
		"document_id", docID,
		"user_id", userID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// GetObligationQueue returns the user's blocking queue.
func (s *Service) GetObligationQueue(ctx context.Context, userID id.UserID) (*sequencer.Queue, error) {
	q, err := s.queues.Queue(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveQueue(len(q.Blocking))
	return q, nil
}

// NotifyRecipients re-sends reminders for docID. Only recipients with an
// outstanding record are contacted; the rest are reported as skipped. An
// empty list reminds every outstanding recipient.
func (s *Service) NotifyRecipients(ctx context.Context, docID id.DocumentID, recipientIDs []id.UserID) (*notify.DeliveryReport, error) {
	doc, err := s.findDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	acks, err := s.store.ListAcknowledgments(ctx, docID)
	if err != nil {
		return nil, translate(err, "document not found", "failed to load acknowledgments")
	}
	outstanding := make(map[id.UserID]bool, len(acks))
	for _, a := range acks {
		if !a.IsSigned() {
			outstanding[a.RecipientID] = true
		}
	}

	var remind, skipped []id.UserID
	if len(recipientIDs) == 0 {
		for _, a := range acks {
			if outstanding[a.RecipientID] {
				remind = append(remind, a.RecipientID)
			}
		}
	} else {
		seen := make(map[id.UserID]bool, len(recipientIDs))
		for _, u := range recipientIDs {
			if seen[u] {
				continue
			}
			seen[u] = true
			if outstanding[u] {
				remind = append(remind, u)
			} else {
				skipped = append(skipped, u)
			}
		}
	}

	report := &notify.DeliveryReport{DocumentID: docID, Results: []notify.DeliveryResult{}}
	if len(remind) > 0 {
		report = s.notifier.RemindRecipients(ctx, doc, remind)
	}
	report.Skip(skipped, "no outstanding acknowledgment")
	return report, nil
}

func (s *Service) GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	return s.findDocument(ctx, docID)
}

// ListAcknowledgments returns every record for docID ordered by recipient.
// Signed records carry whether their payload still matches the stored digest.
func (s *Service) ListAcknowledgments(ctx context.Context, docID id.DocumentID) ([]*models.Acknowledgment, error) {
	if _, err := s.findDocument(ctx, docID); err != nil {
		return nil, err
	}
	acks, err := s.store.ListAcknowledgments(ctx, docID)
	if err != nil {
		return nil, translate(err, "document not found", "failed to load acknowledgments")
	}
	for _, ack := range acks {
		if !ack.IsSigned() {
			continue
		}
		ack.SignatureVerified = signature.Verify(ack)
		if !ack.SignatureVerified {
			s.logger.ErrorContext(ctx, "stored signature does not match its digest",
				"request_id", requestcontext.RequestID(ctx),
				"document_id", docID,
				"recipient_id", ack.RecipientID,
			)
		}
	}
	return acks, nil
}

func (s *Service) findDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.store.FindDocument(ctx, docID)
	if err != nil {
		return nil, translate(err, "document not found", "failed to load document")
	}
	return doc, nil
}

func (s *Service) findAcknowledgment(ctx context.Context, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, error) {
	ack, err := s.store.FindAcknowledgment(ctx, docID, userID)
	if err != nil {
		return nil, translate(err, "acknowledgment not found", "failed to load acknowledgment")
	}
	return ack, nil
}

// emit writes a compliance event attributed to userID. The caller from ctx
// is recorded as actor when it differs.
func (s *Service) emit(ctx context.Context, action audit.AuditEvent, userID id.UserID, docID id.DocumentID, reason string) error {
	if s.auditor == nil {
		return nil
	}
	event := audit.Event{
		Timestamp:  requestcontext.Now(ctx),
		UserID:     userID,
		DocumentID: docID.String(),
		Action:     string(action),
		Reason:     reason,
		RequestID:  requestcontext.RequestID(ctx),
	}
	if actor := requestcontext.UserID(ctx); !actor.IsNil() && actor != userID {
		event.ActorID = actor.String()
	}
	return s.auditor.Emit(ctx, event)
}

// translate maps store facts to domain errors. Domain errors pass through.
func translate(err error, notFoundMsg, internalMsg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "concurrent update, retry the request")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "operation timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}
