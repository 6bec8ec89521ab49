// Package store persists documents and acknowledgment records.
//
// Both implementations give the same guarantees: status transitions are
// compare-and-set, signed records are never deleted, and an outstanding
// record set is read as one snapshot.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
	"siteops/pkg/platform/sentinel"
)

type ackKey struct {
	doc  id.DocumentID
	user id.UserID
}

// InMemoryStore is a process-local store used by tests and single-node runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	documents map[id.DocumentID]*models.Document
	acks      map[ackKey]*models.Acknowledgment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		documents: make(map[id.DocumentID]*models.Document),
		acks:      make(map[ackKey]*models.Acknowledgment),
	}
}

func (s *InMemoryStore) CreateDocument(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; ok {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrConflict)
	}
	d := *doc
	s.documents[doc.ID] = &d
	return nil
}

func (s *InMemoryStore) FindDocument(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", docID, sentinel.ErrNotFound)
	}
	d := *doc
	return &d, nil
}

// LockDocument is FindDocument here; per-document serialization comes from
// the sharded transaction wrapping the call.
func (s *InMemoryStore) LockDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	return s.FindDocument(ctx, docID)
}

func (s *InMemoryStore) ListAcknowledgments(_ context.Context, docID id.DocumentID) ([]*models.Acknowledgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Acknowledgment
	for k, ack := range s.acks {
		if k.doc == docID {
			out = append(out, ack.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.Acknowledgment) int {
		return strings.Compare(a.RecipientID.String(), b.RecipientID.String())
	})
	return out, nil
}

func (s *InMemoryStore) FindAcknowledgment(_ context.Context, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ack, ok := s.acks[ackKey{docID, userID}]
	if !ok {
		return nil, fmt.Errorf("acknowledgment: %w", sentinel.ErrNotFound)
	}
	return ack.Clone(), nil
}

// InsertPending creates pending records for recipients. It fails with
// ErrConflict without writing anything if any record already exists.
func (s *InMemoryStore) InsertPending(_ context.Context, docID id.DocumentID, recipients []id.UserID, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[docID]; !ok {
		return 0, fmt.Errorf("document %s: %w", docID, sentinel.ErrNotFound)
	}
	for _, r := range recipients {
		if _, exists := s.acks[ackKey{docID, r}]; exists {
			return 0, fmt.Errorf("acknowledgment already exists: %w", sentinel.ErrConflict)
		}
	}
	for _, r := range recipients {
		s.acks[ackKey{docID, r}] = models.NewPending(docID, r, at)
	}
	return len(recipients), nil
}

// DeleteUnsigned hard-deletes the pending or viewed records of recipients and
// returns how many were removed. Signed records are skipped.
func (s *InMemoryStore) DeleteUnsigned(_ context.Context, docID id.DocumentID, recipients []id.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, r := range recipients {
		k := ackKey{docID, r}
		ack, ok := s.acks[k]
		if !ok || ack.IsSigned() {
			continue
		}
		delete(s.acks, k)
		removed++
	}
	return removed, nil
}

// MarkViewed moves a pending record to viewed. changed is false when the
// record was already past pending.
func (s *InMemoryStore) MarkViewed(_ context.Context, docID id.DocumentID, userID id.UserID, at time.Time) (*models.Acknowledgment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ack, ok := s.acks[ackKey{docID, userID}]
	if !ok {
		return nil, false, fmt.Errorf("acknowledgment: %w", sentinel.ErrNotFound)
	}
	if ack.CanView() != nil {
		return ack.Clone(), false, nil
	}
	ack.ApplyView(at)
	return ack.Clone(), true, nil
}

// MarkSigned signs a record whose status is in from. changed is false when
// the record did not match; the caller inspects the returned status.
func (s *InMemoryStore) MarkSigned(_ context.Context, docID id.DocumentID, userID id.UserID, capture models.SignatureCapture, from []models.Status) (*models.Acknowledgment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ack, ok := s.acks[ackKey{docID, userID}]
	if !ok {
		return nil, false, fmt.Errorf("acknowledgment: %w", sentinel.ErrNotFound)
	}
	if ack.CanSign(from) != nil {
		return ack.Clone(), false, nil
	}
	ack.ApplySign(capture)
	return ack.Clone(), true, nil
}

// ListOutstanding returns every unsigned record for userID joined with its
// document, read under one lock.
func (s *InMemoryStore) ListOutstanding(_ context.Context, userID id.UserID) ([]models.Obligation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Obligation
	for k, ack := range s.acks {
		if k.user != userID || ack.IsSigned() {
			continue
		}
		doc, ok := s.documents[k.doc]
		if !ok {
			continue
		}
		out = append(out, obligationOf(doc, ack))
	}
	return out, nil
}

func obligationOf(doc *models.Document, ack *models.Acknowledgment) models.Obligation {
	return models.Obligation{
		DocumentID:   doc.ID,
		Kind:         doc.Kind,
		Title:        doc.Title,
		Mandatory:    doc.Mandatory,
		ContentRef:   doc.ContentRef,
		DocCreatedAt: doc.CreatedAt,
		Status:       ack.Status,
		AssignedAt:   ack.AssignedAt,
	}
}
