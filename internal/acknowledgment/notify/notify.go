// Package notify sends assignment emails. Delivery is best effort: every
// outcome lands in the report and nothing here returns an error to the
// assignment path.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"siteops/internal/acknowledgment/models"
	"siteops/internal/directory"
	id "siteops/pkg/domain"
	"siteops/pkg/email"
	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/circuit"
	"siteops/pkg/platform/sentinel"
)

type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
	StatusSkipped DeliveryStatus = "skipped"
)

// DeliveryResult is the outcome for one recipient. Reason is set for failed
// and skipped results.
type DeliveryResult struct {
	RecipientID id.UserID      `json:"recipient_id"`
	Status      DeliveryStatus `json:"status"`
	Reason      string         `json:"reason,omitempty"`
}

type DeliveryReport struct {
	DocumentID id.DocumentID    `json:"document_id"`
	Results    []DeliveryResult `json:"results"`
	Sent       int              `json:"sent"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
}

func (r *DeliveryReport) add(res DeliveryResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case StatusSent:
		r.Sent++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	}
}

// Skip records recipients excluded before delivery was attempted.
func (r *DeliveryReport) Skip(recipients []id.UserID, reason string) {
	for _, u := range recipients {
		r.add(DeliveryResult{RecipientID: u, Status: StatusSkipped, Reason: reason})
	}
}

type Directory interface {
	Find(ctx context.Context, userID id.UserID) (*directory.User, error)
}

type Sender interface {
	Send(ctx context.Context, msg email.Message) error
}

type OpsTracker interface {
	Track(ctx context.Context, event audit.Event)
}

type Metrics interface {
	ObserveDelivery(status string)
	SetBreakerOpen(open bool)
}

const (
	defaultConcurrency = 8
	defaultSendTimeout = 10 * time.Second
)

type Notifier struct {
	directory   Directory
	sender      Sender
	breaker     *circuit.Breaker
	tracker     OpsTracker
	metrics     Metrics
	logger      *slog.Logger
	concurrency int
	timeout     time.Duration
	baseURL     string
}

type Option func(*Notifier)

func WithBreaker(b *circuit.Breaker) Option {
	return func(n *Notifier) {
		if b != nil {
			n.breaker = b
		}
	}
}

func WithTracker(t OpsTracker) Option {
	return func(n *Notifier) { n.tracker = t }
}

func WithMetrics(m Metrics) Option {
	return func(n *Notifier) { n.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// WithConcurrency bounds parallel sends.
func WithConcurrency(c int) Option {
	return func(n *Notifier) {
		if c > 0 {
			n.concurrency = c
		}
	}
}

// WithSendTimeout bounds each individual send.
func WithSendTimeout(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithBaseURL sets the web origin used for document links in emails.
func WithBaseURL(u string) Option {
	return func(n *Notifier) { n.baseURL = strings.TrimRight(u, "/") }
}

func New(dir Directory, sender Sender, opts ...Option) *Notifier {
	n := &Notifier{
		directory:   dir,
		sender:      sender,
		breaker:     circuit.New("smtp"),
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
		timeout:     defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyRecipients emails each recipient about a new assignment.
func (n *Notifier) NotifyRecipients(ctx context.Context, doc *models.Document, recipients []id.UserID) *DeliveryReport {
	return n.fanOut(ctx, doc, recipients, false)
}

// RemindRecipients emails each recipient a reminder for an outstanding item.
func (n *Notifier) RemindRecipients(ctx context.Context, doc *models.Document, recipients []id.UserID) *DeliveryReport {
	return n.fanOut(ctx, doc, recipients, true)
}

func (n *Notifier) fanOut(ctx context.Context, doc *models.Document, recipients []id.UserID, reminder bool) *DeliveryReport {
	results := make([]DeliveryResult, len(recipients))

	var g errgroup.Group
	g.SetLimit(n.concurrency)
	for i, r := range recipients {
		g.Go(func() error {
			results[i] = n.deliver(ctx, doc, r, reminder)
			return nil
		})
	}
	_ = g.Wait()

	report := &DeliveryReport{DocumentID: doc.ID, Results: make([]DeliveryResult, 0, len(results))}
	for _, res := range results {
		report.add(res)
	}
	n.logger.InfoContext(ctx, "notification fan-out finished",
		"document_id", doc.ID,
		"reminder", reminder,
		"sent", report.Sent,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return report
}

func (n *Notifier) deliver(ctx context.Context, doc *models.Document, recipient id.UserID, reminder bool) DeliveryResult {
	res := n.attempt(ctx, doc, recipient, reminder)
	if n.metrics != nil {
		n.metrics.ObserveDelivery(string(res.Status))
	}
	if res.Status == StatusSkipped {
		return res
	}

	action := audit.EventNotificationSent
	if res.Status == StatusFailed {
		action = audit.EventNotificationFailed
		n.logger.WarnContext(ctx, "notification delivery failed",
			"document_id", doc.ID,
			"recipient_id", recipient,
			"reason", res.Reason,
		)
	}
	if n.tracker != nil {
		n.tracker.Track(ctx, audit.Event{
			UserID:     recipient,
			DocumentID: doc.ID.String(),
			Action:     string(action),
			Reason:     res.Reason,
		})
	}
	return res
}

func (n *Notifier) attempt(ctx context.Context, doc *models.Document, recipient id.UserID, reminder bool) DeliveryResult {
	res := DeliveryResult{RecipientID: recipient}

	user, err := n.directory.Find(ctx, recipient)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		res.Status, res.Reason = StatusSkipped, "recipient not in directory"
		return res
	case err != nil:
		res.Status, res.Reason = StatusFailed, "directory lookup failed"
		return res
	case user.Email == "":
		res.Status, res.Reason = StatusSkipped, "no email address on file"
		return res
	}

	if !n.breaker.Allow() {
		res.Status, res.Reason = StatusFailed, "email channel unavailable"
		return res
	}

	name := user.FullName
	if name == "" {
		first, _ := email.DeriveNameFromEmail(user.Email)
		name = first
	}
	msg, err := email.RenderAssignment(user.Email, email.AssignmentData{
		RecipientName: name,
		Title:         doc.Title,
		KindLabel:     kindLabel(doc.Kind),
		Mandatory:     doc.Mandatory,
		Reminder:      reminder,
		URL:           n.documentURL(doc.ID),
	})
	if err != nil {
		res.Status, res.Reason = StatusFailed, "render failed"
		return res
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.sender.Send(sendCtx, msg); err != nil {
		n.recordBreaker(n.breaker.RecordFailure())
		res.Status, res.Reason = StatusFailed, err.Error()
		return res
	}
	n.recordBreaker(n.breaker.RecordSuccess())
	res.Status = StatusSent
	return res
}

func (n *Notifier) recordBreaker(_ bool, change circuit.StateChange) {
	if n.metrics == nil || (!change.Opened && !change.Closed) {
		return
	}
	n.metrics.SetBreakerOpen(change.Opened)
}

func (n *Notifier) documentURL(docID id.DocumentID) string {
	return n.baseURL + "/documents/" + url.PathEscape(docID.String())
}

func kindLabel(kind id.DocumentKind) string {
	switch kind {
	case id.DocumentKindRiskPack:
		return "Risk assessment pack"
	case id.DocumentKindBulletin:
		return "Toolbox talk"
	}
	return "Document"
}
