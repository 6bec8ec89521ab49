package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"siteops/internal/acknowledgment/models"
	"siteops/internal/acknowledgment/notify"
	"siteops/internal/acknowledgment/readprogress"
	"siteops/internal/acknowledgment/recipients"
	"siteops/internal/acknowledgment/sequencer"
	"siteops/internal/acknowledgment/service"
	"siteops/internal/acknowledgment/store"
	"siteops/internal/directory"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	"siteops/pkg/email"
	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/audit/publishers/compliance"
	auditmemory "siteops/pkg/platform/audit/store/memory"
	"siteops/pkg/requestcontext"
	"siteops/pkg/testutil"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (r *recordingSender) Send(_ context.Context, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[msg.To] {
		return errors.New("mailbox unavailable")
	}
	r.sent = append(r.sent, msg.To)
	return nil
}

func (r *recordingSender) Sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

// ServiceSuite runs the workflow against the in-memory store, directory and
// audit trail.
type ServiceSuite struct {
	suite.Suite
	ctx    context.Context
	store  *store.InMemoryStore
	users  *directory.InMemoryStore
	events *auditmemory.InMemoryStore
	sender *recordingSender
	svc    *service.Service

	manager id.UserID
	alice   id.UserID
	bob     id.UserID
	carol   id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemoryStore()
	s.users = directory.NewInMemoryStore()
	s.events = auditmemory.NewInMemoryStore()
	s.sender = &recordingSender{failFor: map[string]bool{}}

	s.manager = s.addUser("manager@example.com", "manager")
	s.alice = s.addUser("alice@example.com", "operative")
	s.bob = s.addUser("bob@example.com", "operative")
	s.carol = s.addUser("carol@example.com", "supervisor")

	s.ctx = requestcontext.WithUserID(context.Background(), s.manager)
	s.svc = s.newService()
}

func (s *ServiceSuite) newService(opts ...service.Option) *service.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.New(s.users, s.sender, notify.WithLogger(logger))
	base := []service.Option{
		service.WithAuditPublisher(compliance.New(s.events)),
		service.WithLogger(logger),
	}
	return service.New(s.store, recipients.NewResolver(s.users), notifier,
		sequencer.New(s.store, sequencer.WithLogger(logger)), append(base, opts...)...)
}

func (s *ServiceSuite) addUser(mail string, roles ...string) id.UserID {
	userID := id.UserID(uuid.New())
	u, err := directory.NewUser(userID, mail, "", roles, true, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.users.Upsert(context.Background(), u))
	return userID
}

func selection(users ...id.UserID) recipients.Selection {
	sel := recipients.Selection{}
	for _, u := range users {
		sel.UserIDs = append(sel.UserIDs, u.String())
	}
	return sel
}

func (s *ServiceSuite) createRiskPack(users ...id.UserID) (*models.Document, *service.ReconcileResult) {
	doc, result, err := s.svc.CreateDocument(s.ctx, service.CreateDocumentRequest{
		Kind:       id.DocumentKindRiskPack,
		Title:      "Scaffold erection RAMS",
		ContentRef: "files/rams-17.pdf",
		Mandatory:  true,
		CreatedBy:  s.manager,
		Recipients: selection(users...),
	})
	s.Require().NoError(err)
	return doc, result
}

func (s *ServiceSuite) createBulletin(mandatory bool, users ...id.UserID) *models.Document {
	doc, _, err := s.svc.CreateDocument(s.ctx, service.CreateDocumentRequest{
		Kind:       id.DocumentKindBulletin,
		Title:      "Hot weather working",
		Body:       "Drink water every hour.",
		Mandatory:  mandatory,
		CreatedBy:  s.manager,
		Recipients: selection(users...),
	})
	s.Require().NoError(err)
	return doc
}

func (s *ServiceSuite) sign(docID id.DocumentID, userID id.UserID, payload string) (*models.Acknowledgment, error) {
	return s.svc.RecordSignature(s.ctx, service.SignRequest{
		DocumentID:  docID,
		RecipientID: userID,
		Signature:   payload,
	})
}

func (s *ServiceSuite) statuses(docID id.DocumentID) map[id.UserID]models.Status {
	return statusesOf(s.T(), s.ctx, s.svc, docID)
}

func statusesOf(t *testing.T, ctx context.Context, svc *service.Service, docID id.DocumentID) map[id.UserID]models.Status {
	t.Helper()
	acks, err := svc.ListAcknowledgments(ctx, docID)
	require.NoError(t, err)
	out := make(map[id.UserID]models.Status, len(acks))
	for _, a := range acks {
		out[a.RecipientID] = a.Status
	}
	return out
}

func (s *ServiceSuite) TestCreateDocumentAssignsAndNotifies() {
	doc, result := s.createRiskPack(s.alice, s.bob)

	s.ElementsMatch([]id.UserID{s.alice, s.bob}, result.Added)
	s.Empty(result.Removed)
	s.Require().NotNil(result.Delivery)
	s.Equal(2, result.Delivery.Sent)
	s.ElementsMatch([]string{"alice@example.com", "bob@example.com"}, s.sender.Sent())

	s.Equal(map[id.UserID]models.Status{s.alice: models.StatusPending, s.bob: models.StatusPending}, s.statuses(doc.ID))
	s.Len(s.events.ListByAction(s.ctx, audit.EventDocumentCreated), 1)
	assigned := s.events.ListByAction(s.ctx, audit.EventRecipientAssigned)
	s.Len(assigned, 2)
	s.Equal(s.manager.String(), assigned[0].ActorID)
}

func (s *ServiceSuite) TestCreateDocumentValidation() {
	_, _, err := s.svc.CreateDocument(s.ctx, service.CreateDocumentRequest{
		Kind:       id.DocumentKindRiskPack,
		Title:      "  ",
		ContentRef: "files/x.pdf",
		Mandatory:  true,
		CreatedBy:  s.manager,
		Recipients: selection(s.alice),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, _, err = s.svc.CreateDocument(s.ctx, service.CreateDocumentRequest{
		Kind:      id.DocumentKindBulletin,
		Title:     "Nobody",
		Body:      "text",
		CreatedBy: s.manager,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.events.All(), "nothing is written when validation fails")
}

func (s *ServiceSuite) TestAssignThenPartiallyUnassign() {
	testutil.Given(s.T(), "a risk pack assigned to three recipients where one has signed", func(t *testing.T) {
		doc, _, err := s.svc.CreateDocument(s.ctx, service.CreateDocumentRequest{
			Kind:       id.DocumentKindRiskPack,
			Title:      "Excavation permit",
			ContentRef: "files/permit-4.pdf",
			Mandatory:  true,
			CreatedBy:  s.manager,
			Recipients: selection(s.alice, s.bob, s.carol),
		})
		require.NoError(t, err)
		_, err = s.svc.RecordViewed(s.ctx, doc.ID, s.alice)
		require.NoError(t, err)
		_, err = s.sign(doc.ID, s.alice, "alice-sig")
		require.NoError(t, err)

		testutil.When(t, "the selection is narrowed to one unsigned recipient", func(t *testing.T) {
			result, err := s.svc.ReconcileAssignment(s.ctx, doc.ID, selection(s.bob))
			require.NoError(t, err)

			testutil.Then(t, "the signed record is retained and the other unsigned record removed", func(t *testing.T) {
				assert.Empty(t, result.Added)
				assert.Equal(t, []id.UserID{s.carol}, result.Removed)
				assert.Equal(t, []id.UserID{s.alice}, result.Retained)
				assert.Equal(t, map[id.UserID]models.Status{
					s.alice: models.StatusSigned,
					s.bob:   models.StatusPending,
				}, statusesOf(t, s.ctx, s.svc, doc.ID))
				assert.Len(t, s.events.ListByAction(s.ctx, audit.EventRecipientUnassigned), 1)
			})
		})

		testutil.When(t, "the selection is narrowed to the signer alone", func(t *testing.T) {
			result, err := s.svc.ReconcileAssignment(s.ctx, doc.ID, selection(s.alice))
			require.NoError(t, err)

			testutil.Then(t, "the signer stays and nothing is added", func(t *testing.T) {
				assert.Empty(t, result.Added)
				assert.Equal(t, []id.UserID{s.bob}, result.Removed)
				assert.Equal(t, map[id.UserID]models.Status{s.alice: models.StatusSigned},
					statusesOf(t, s.ctx, s.svc, doc.ID))
			})
		})
	})
}

func (s *ServiceSuite) TestReconcileIsIdempotent() {
	doc, _ := s.createRiskPack(s.alice)
	sel := recipients.Selection{Roles: []string{"operative"}}

	first, err := s.svc.ReconcileAssignment(s.ctx, doc.ID, sel)
	s.Require().NoError(err)
	s.Equal([]id.UserID{s.bob}, first.Added)

	second, err := s.svc.ReconcileAssignment(s.ctx, doc.ID, sel)
	s.Require().NoError(err)
	s.Empty(second.Added)
	s.Empty(second.Removed)
	s.Nil(second.Delivery)
	s.Len(s.events.ListByAction(s.ctx, audit.EventRecipientAssigned), 2)
}

func (s *ServiceSuite) TestReconcileUnknownDocument() {
	_, err := s.svc.ReconcileAssignment(s.ctx, id.NewDocumentID(), selection(s.alice))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestNotificationFailureKeepsAssignment() {
	s.sender.failFor["bob@example.com"] = true

	doc, result := s.createRiskPack(s.alice, s.bob, s.carol)

	s.Require().NotNil(result.Delivery)
	s.Equal(2, result.Delivery.Sent)
	s.Equal(1, result.Delivery.Failed)
	for _, r := range result.Delivery.Results {
		if r.RecipientID == s.bob {
			s.Equal(notify.StatusFailed, r.Status)
		}
	}
	s.Len(s.statuses(doc.ID), 3, "delivery failure never rolls back the assignment")
}

func (s *ServiceSuite) TestAsyncNotificationIsDetached() {
	svc := s.newService(service.WithAsyncNotification(time.Second))
	ctx, cancel := context.WithCancel(s.ctx)

	_, result, err := svc.CreateDocument(ctx, service.CreateDocumentRequest{
		Kind:       id.DocumentKindBulletin,
		Title:      "Site closed Friday",
		Body:       "Gates locked at noon.",
		Mandatory:  true,
		CreatedBy:  s.manager,
		Recipients: selection(s.alice),
	})
	cancel()
	s.Require().NoError(err)
	s.Nil(result.Delivery)

	svc.Wait()
	s.Equal([]string{"alice@example.com"}, s.sender.Sent())
}

func (s *ServiceSuite) TestNotificationAfterWaitRunsInline() {
	svc := s.newService(service.WithAsyncNotification(time.Second))
	svc.Wait()

	_, result, err := svc.CreateDocument(s.ctx, service.CreateDocumentRequest{
		Kind:       id.DocumentKindBulletin,
		Title:      "Site closed Friday",
		Body:       "Gates locked at noon.",
		Mandatory:  true,
		CreatedBy:  s.manager,
		Recipients: selection(s.alice),
	})
	s.Require().NoError(err)
	s.Require().NotNil(result.Delivery, "no work is detached once draining has started")
	s.Equal(1, result.Delivery.Sent)
	s.Equal([]string{"alice@example.com"}, s.sender.Sent())
}

func (s *ServiceSuite) TestRiskPackRequiresView() {
	doc, _ := s.createRiskPack(s.alice)

	_, err := s.sign(doc.ID, s.alice, "too-early")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

	ack, err := s.svc.RecordViewed(s.ctx, doc.ID, s.alice)
	s.Require().NoError(err)
	s.Equal(models.StatusViewed, ack.Status)

	ack, err = s.sign(doc.ID, s.alice, "first")
	s.Require().NoError(err)
	s.Equal(models.StatusSigned, ack.Status)
	s.Equal("first", ack.Signature)
	s.NotEmpty(ack.SignatureDigest)
	signedAt := *ack.SignedAt

	ack, err = s.sign(doc.ID, s.alice, "second")
	s.Require().NoError(err, "repeat signature is a no-op success")
	s.Equal("first", ack.Signature)
	s.Equal(signedAt, *ack.SignedAt)

	ack, err = s.svc.RecordViewed(s.ctx, doc.ID, s.alice)
	s.Require().NoError(err, "view after sign is a no-op success")
	s.Equal(models.StatusSigned, ack.Status)

	s.Len(s.events.ListByAction(s.ctx, audit.EventAcknowledgmentView), 1)
	s.Len(s.events.ListByAction(s.ctx, audit.EventAcknowledgmentSign), 1)
}

func (s *ServiceSuite) TestSignatureValidation() {
	doc := s.createBulletin(true, s.alice)

	_, err := s.sign(doc.ID, s.alice, "   ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.sign(doc.ID, s.bob, "sig")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "unassigned users cannot sign")

	_, err = s.sign(id.NewDocumentID(), s.alice, "sig")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestMandatoryBulletinCollapsesView() {
	doc := s.createBulletin(true, s.alice)

	ack, err := s.svc.RecordViewed(s.ctx, doc.ID, s.alice)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, ack.Status)
	s.Empty(s.events.ListByAction(s.ctx, audit.EventAcknowledgmentView))

	ack, err = s.svc.RecordSignature(s.ctx, service.SignRequest{
		DocumentID:  doc.ID,
		RecipientID: s.alice,
		Signature:   "sig",
		Comment:     "understood",
		UserAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusSigned, ack.Status)
	s.Equal("understood", ack.Comment)
	s.Contains(ack.SignedDevice, "Firefox")
}

func (s *ServiceSuite) TestConcurrentDoubleSubmit() {
	doc := s.createBulletin(true, s.alice)

	const submits = 20
	var wg sync.WaitGroup
	errs := make([]error, submits)
	for i := range submits {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.sign(doc.ID, s.alice, fmt.Sprintf("sig-%d", i))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}
	signed := s.events.ListByAction(s.ctx, audit.EventAcknowledgmentSign)
	s.Len(signed, 1, "exactly one submission wins")

	acks, err := s.svc.ListAcknowledgments(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Require().Len(acks, 1)
	s.Equal(signed[0].Reason, acks[0].SignatureDigest)
	s.True(acks[0].SignatureVerified)
}

func (s *ServiceSuite) TestDismissAdvisory() {
	advisory := s.createBulletin(false, s.alice)
	pack, _ := s.createRiskPack(s.alice)

	_, err := s.svc.Dismiss(s.ctx, pack.ID, s.alice)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

	q, err := s.svc.GetObligationQueue(s.ctx, s.alice)
	s.Require().NoError(err)
	head, ok := q.Next()
	s.Require().True(ok)
	s.Equal(pack.ID, head.DocumentID, "blocking items come before advisories")
	s.Len(q.Dismissible, 1)

	ack, err := s.svc.Dismiss(s.ctx, advisory.ID, s.alice)
	s.Require().NoError(err)
	s.Equal(models.StatusViewed, ack.Status)
	s.Len(s.events.ListByAction(s.ctx, audit.EventAdvisoryDismissed), 1)

	q, err = s.svc.GetObligationQueue(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Empty(q.Dismissible, "dismissed advisories leave the queue")
	s.Len(q.Blocking, 1)
}

func (s *ServiceSuite) TestQueueClearsAsItemsAreSigned() {
	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(s.ctx, base)
	first, _ := s.createRiskPack(s.alice)
	s.ctx = requestcontext.WithTime(s.ctx, base.Add(time.Minute))
	second := s.createBulletin(true, s.alice)

	q, err := s.svc.GetObligationQueue(s.ctx, s.alice)
	s.Require().NoError(err)
	s.True(q.IsBlocked())
	head, _ := q.Next()
	s.Equal(first.ID, head.DocumentID)

	_, err = s.svc.RecordViewed(s.ctx, first.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.sign(first.ID, s.alice, "sig")
	s.Require().NoError(err)

	q, err = s.svc.GetObligationQueue(s.ctx, s.alice)
	s.Require().NoError(err)
	head, _ = q.Next()
	s.Equal(second.ID, head.DocumentID)

	_, err = s.sign(second.ID, s.alice, "sig")
	s.Require().NoError(err)
	q, err = s.svc.GetObligationQueue(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(q.IsBlocked())
}

func (s *ServiceSuite) TestRecordProgress() {
	doc, _ := s.createRiskPack(s.alice)

	viewed, ack, err := s.svc.RecordProgress(s.ctx, doc.ID, s.alice, readprogress.Signal{
		Trigger: readprogress.TriggerDwell,
		Dwell:   2 * time.Second,
	})
	s.Require().NoError(err)
	s.False(viewed)
	s.Equal(models.StatusPending, ack.Status)

	_, _, err = s.svc.RecordProgress(s.ctx, doc.ID, s.alice, readprogress.Signal{
		Trigger:        readprogress.TriggerScroll,
		ScrollFraction: 1,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "file renderings cannot report scroll")

	viewed, ack, err = s.svc.RecordProgress(s.ctx, doc.ID, s.alice, readprogress.Signal{
		Trigger: readprogress.TriggerDownload,
	})
	s.Require().NoError(err)
	s.True(viewed)
	s.Equal(models.StatusViewed, ack.Status)
}

func (s *ServiceSuite) TestUnassign() {
	doc, _ := s.createRiskPack(s.alice, s.bob)
	_, err := s.svc.RecordViewed(s.ctx, doc.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.sign(doc.ID, s.alice, "sig")
	s.Require().NoError(err)

	err = s.svc.Unassign(s.ctx, doc.ID, s.alice)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	s.Require().NoError(s.svc.Unassign(s.ctx, doc.ID, s.bob))
	s.Equal(map[id.UserID]models.Status{s.alice: models.StatusSigned}, s.statuses(doc.ID))

	err = s.svc.Unassign(s.ctx, doc.ID, s.bob)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.svc.Unassign(s.ctx, id.NewDocumentID(), s.bob)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestNotifyRecipientsRemindsOutstandingOnly() {
	doc, _ := s.createRiskPack(s.alice, s.bob)
	_, err := s.svc.RecordViewed(s.ctx, doc.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.sign(doc.ID, s.alice, "sig")
	s.Require().NoError(err)

	before := len(s.sender.Sent())
	report, err := s.svc.NotifyRecipients(s.ctx, doc.ID, []id.UserID{s.alice, s.bob, s.carol})
	s.Require().NoError(err)
	s.Equal(1, report.Sent)
	s.Equal(2, report.Skipped)
	s.Equal([]string{"bob@example.com"}, s.sender.Sent()[before:])

	report, err = s.svc.NotifyRecipients(s.ctx, doc.ID, nil)
	s.Require().NoError(err)
	s.Equal(1, report.Sent)
	s.Zero(report.Skipped)
}

func (s *ServiceSuite) TestNotifyRecipientsNothingOutstanding() {
	doc := s.createBulletin(true, s.alice)
	_, err := s.sign(doc.ID, s.alice, "sig")
	s.Require().NoError(err)

	report, err := s.svc.NotifyRecipients(s.ctx, doc.ID, nil)
	s.Require().NoError(err)
	s.Equal(doc.ID, report.DocumentID)
	s.Empty(report.Results)
}
