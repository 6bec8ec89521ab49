package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
	"siteops/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 4, 1, 7, 30, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) newDocument(kind id.DocumentKind, mandatory bool, created time.Time) *models.Document {
	doc, err := models.NewDocument(id.NewDocumentID(), kind, "Hot works", "body", "files/hot-works.pdf",
		mandatory, id.UserID(uuid.New()), created)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateDocument(s.ctx, doc))
	return doc
}

func (s *MemoryStoreSuite) TestDocuments() {
	doc := s.newDocument(id.DocumentKindRiskPack, true, s.now)

	found, err := s.store.FindDocument(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(doc.Title, found.Title)

	s.ErrorIs(s.store.CreateDocument(s.ctx, doc), sentinel.ErrConflict)

	_, err = s.store.FindDocument(s.ctx, id.NewDocumentID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestInsertPendingIsAllOrNothing() {
	doc := s.newDocument(id.DocumentKindBulletin, true, s.now)
	alice, bob := id.UserID(uuid.New()), id.UserID(uuid.New())

	n, err := s.store.InsertPending(s.ctx, doc.ID, []id.UserID{alice}, s.now)
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.store.InsertPending(s.ctx, doc.ID, []id.UserID{bob, alice}, s.now)
	s.ErrorIs(err, sentinel.ErrConflict)

	acks, err := s.store.ListAcknowledgments(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Len(acks, 1, "bob must not be inserted when alice conflicts")
}

func (s *MemoryStoreSuite) TestDeleteUnsignedKeepsSigned() {
	doc := s.newDocument(id.DocumentKindBulletin, true, s.now)
	alice, bob := id.UserID(uuid.New()), id.UserID(uuid.New())
	_, err := s.store.InsertPending(s.ctx, doc.ID, []id.UserID{alice, bob}, s.now)
	s.Require().NoError(err)

	_, changed, err := s.store.MarkSigned(s.ctx, doc.ID, alice, models.SignatureCapture{Payload: "sig", At: s.now},
		doc.Contract().SignableFrom())
	s.Require().NoError(err)
	s.True(changed)

	removed, err := s.store.DeleteUnsigned(s.ctx, doc.ID, []id.UserID{alice, bob})
	s.Require().NoError(err)
	s.Equal(1, removed)

	ack, err := s.store.FindAcknowledgment(s.ctx, doc.ID, alice)
	s.Require().NoError(err)
	s.True(ack.IsSigned())
	_, err = s.store.FindAcknowledgment(s.ctx, doc.ID, bob)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestMarkViewedIsCompareAndSet() {
	doc := s.newDocument(id.DocumentKindRiskPack, true, s.now)
	alice := id.UserID(uuid.New())
	_, err := s.store.InsertPending(s.ctx, doc.ID, []id.UserID{alice}, s.now)
	s.Require().NoError(err)

	first, changed, err := s.store.MarkViewed(s.ctx, doc.ID, alice, s.now.Add(time.Minute))
	s.Require().NoError(err)
	s.True(changed)

	again, changed, err := s.store.MarkViewed(s.ctx, doc.ID, alice, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.False(changed)
	s.Equal(*first.ViewedAt, *again.ViewedAt)

	_, _, err = s.store.MarkViewed(s.ctx, doc.ID, id.UserID(uuid.New()), s.now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestConcurrentSignatureSingleWinner() {
	doc := s.newDocument(id.DocumentKindBulletin, true, s.now)
	alice := id.UserID(uuid.New())
	_, err := s.store.InsertPending(s.ctx, doc.ID, []id.UserID{alice}, s.now)
	s.Require().NoError(err)

	const goroutines = 20
	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, changed, err := s.store.MarkSigned(s.ctx, doc.ID, alice,
				models.SignatureCapture{Payload: uuid.NewString(), At: s.now}, doc.Contract().SignableFrom())
			if err == nil && changed {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), winners.Load())
}

func (s *MemoryStoreSuite) TestListOutstandingExcludesSigned() {
	alice := id.UserID(uuid.New())
	older := s.newDocument(id.DocumentKindRiskPack, true, s.now.Add(-time.Hour))
	newer := s.newDocument(id.DocumentKindBulletin, false, s.now)
	signed := s.newDocument(id.DocumentKindBulletin, true, s.now)
	for _, d := range []*models.Document{older, newer, signed} {
		_, err := s.store.InsertPending(s.ctx, d.ID, []id.UserID{alice}, s.now)
		s.Require().NoError(err)
	}
	_, _, err := s.store.MarkSigned(s.ctx, signed.ID, alice, models.SignatureCapture{Payload: "x", At: s.now},
		signed.Contract().SignableFrom())
	s.Require().NoError(err)

	obligations, err := s.store.ListOutstanding(s.ctx, alice)
	s.Require().NoError(err)
	s.Len(obligations, 2)
	for _, o := range obligations {
		s.NotEqual(signed.ID, o.DocumentID)
	}

	none, err := s.store.ListOutstanding(s.ctx, id.UserID(uuid.New()))
	s.Require().NoError(err)
	s.Empty(none)
}
