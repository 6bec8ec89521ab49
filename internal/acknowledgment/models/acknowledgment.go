package models

import (
	"slices"
	"time"

	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
)

// Status is the acknowledgment state. It only moves forward:
// pending → viewed → signed, or pending → signed.
type Status string

const (
	StatusPending Status = "pending"
	StatusViewed  Status = "viewed"
	StatusSigned  Status = "signed"
)

var statusRank = map[Status]int{
	StatusPending: 0,
	StatusViewed:  1,
	StatusSigned:  2,
}

func (s Status) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether next is a permitted successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

func (s Status) String() string { return string(s) }

// ParseStatus parses a persisted status value.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "unknown acknowledgment status: "+s)
	}
	return st, nil
}

// Acknowledgment is the per-(document, recipient) record.
//
// Invariants:
//   - Status only moves forward (see Status.CanTransitionTo)
//   - SignedAt != nil if and only if Status == signed
//   - Signed records are never deleted or mutated
type Acknowledgment struct {
	DocumentID      id.DocumentID `json:"document_id"`
	RecipientID     id.UserID     `json:"recipient_id"`
	Status          Status        `json:"status"`
	AssignedAt      time.Time     `json:"assigned_at"`
	ViewedAt        *time.Time    `json:"viewed_at,omitempty"`
	SignedAt        *time.Time    `json:"signed_at,omitempty"`
	Signature       string        `json:"-"`
	SignatureDigest string        `json:"signature_digest,omitempty"`
	SignedDevice    string        `json:"signed_device,omitempty"`
	Comment         string        `json:"comment,omitempty"`

	// SignatureVerified is derived on author reads and never persisted.
	SignatureVerified bool `json:"signature_verified,omitempty"`
}

func NewPending(docID id.DocumentID, recipient id.UserID, now time.Time) *Acknowledgment {
	return &Acknowledgment{
		DocumentID:  docID,
		RecipientID: recipient,
		Status:      StatusPending,
		AssignedAt:  now,
	}
}

func (a *Acknowledgment) IsSigned() bool { return a.Status == StatusSigned }

// SignatureCapture carries everything written by a single signing transition.
type SignatureCapture struct {
	Payload string
	Digest  string
	Device  string
	Comment string
	At      time.Time
}

// CanView checks the pending → viewed guard.
func (a *Acknowledgment) CanView() error {
	if !a.Status.CanTransitionTo(StatusViewed) {
		return dErrors.New(dErrors.CodeInvariantViolation, "acknowledgment is not pending")
	}
	return nil
}

// ApplyView sets viewed state. Call CanView first.
func (a *Acknowledgment) ApplyView(now time.Time) {
	a.Status = StatusViewed
	a.ViewedAt = &now
}

// CanSign checks the signing guard against the allowed from-states.
func (a *Acknowledgment) CanSign(from []Status) error {
	if a.IsSigned() {
		return dErrors.New(dErrors.CodeInvariantViolation, "acknowledgment is already signed")
	}
	if !a.Status.CanTransitionTo(StatusSigned) || !slices.Contains(from, a.Status) {
		return dErrors.New(dErrors.CodeInvariantViolation, "acknowledgment cannot be signed from "+string(a.Status))
	}
	return nil
}

// ApplySign writes status, timestamp and payload together. Call CanSign first.
func (a *Acknowledgment) ApplySign(c SignatureCapture) {
	at := c.At
	a.Status = StatusSigned
	a.SignedAt = &at
	a.Signature = c.Payload
	a.SignatureDigest = c.Digest
	a.SignedDevice = c.Device
	a.Comment = c.Comment
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (a *Acknowledgment) Clone() *Acknowledgment {
	if a == nil {
		return nil
	}
	c := *a
	if a.ViewedAt != nil {
		v := *a.ViewedAt
		c.ViewedAt = &v
	}
	if a.SignedAt != nil {
		s := *a.SignedAt
		c.SignedAt = &s
	}
	return &c
}

// Obligation is the read-time projection of an outstanding acknowledgment
// joined with its document, used to build a recipient's queue.
type Obligation struct {
	DocumentID   id.DocumentID   `json:"document_id"`
	Kind         id.DocumentKind `json:"kind"`
	Title        string          `json:"title"`
	Mandatory    bool            `json:"mandatory"`
	ContentRef   string          `json:"content_ref,omitempty"`
	DocCreatedAt time.Time       `json:"document_created_at"`
	Status       Status          `json:"status"`
	AssignedAt   time.Time       `json:"assigned_at"`
}

func (o Obligation) Contract() Contract {
	return ContractFor(o.Kind, o.Mandatory)
}
