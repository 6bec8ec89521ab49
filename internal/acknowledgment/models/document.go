package models

import (
	"strings"
	"time"

	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
)

const (
	maxTitleLength = 200
	maxBodyLength  = 64 * 1024
)

// Document is an assignable safety artifact.
//
// Invariants:
//   - ID, Kind, CreatedBy and CreatedAt are immutable after construction
//   - Title is non-empty and at most 200 characters
//   - Risk packs carry a content reference and are always mandatory
//   - Bulletins carry a body or a content reference
//
// There is no update operation: a correction is a new Document.
type Document struct {
	ID         id.DocumentID   `json:"id"`
	Kind       id.DocumentKind `json:"kind"`
	Title      string          `json:"title"`
	Body       string          `json:"body,omitempty"`
	ContentRef string          `json:"content_ref,omitempty"`
	Mandatory  bool            `json:"mandatory"`
	CreatedBy  id.UserID       `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewDocument validates and constructs a document. Violations are reported as
// CodeInvariantViolation; services translate them to validation errors.
func NewDocument(
	docID id.DocumentID,
	kind id.DocumentKind,
	title, body, contentRef string,
	mandatory bool,
	createdBy id.UserID,
	now time.Time,
) (*Document, error) {
	title = strings.TrimSpace(title)
	contentRef = strings.TrimSpace(contentRef)

	switch {
	case docID.IsNil():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document id is required")
	case !kind.IsValid():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unsupported document kind")
	case createdBy.IsNil():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document author is required")
	case title == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "title cannot be empty")
	case len(title) > maxTitleLength:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "title must be 200 characters or less")
	case len(body) > maxBodyLength:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "body is too large")
	}

	switch kind {
	case id.DocumentKindRiskPack:
		if contentRef == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "risk pack requires a content reference")
		}
		if !mandatory {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "risk packs are always mandatory")
		}
	case id.DocumentKindBulletin:
		if strings.TrimSpace(body) == "" && contentRef == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "bulletin requires a body or a content reference")
		}
	}

	return &Document{
		ID:         docID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		ContentRef: contentRef,
		Mandatory:  mandatory,
		CreatedBy:  createdBy,
		CreatedAt:  now,
	}, nil
}

// Contract returns the acknowledgment contract for this document.
func (d *Document) Contract() Contract {
	return ContractFor(d.Kind, d.Mandatory)
}

// Contract parameterizes the acknowledgment state machine by document shape.
type Contract struct {
	// RequiresView: the record must be Viewed before it can be Signed.
	RequiresView bool
	// CollapsedView: viewing is not a state; view calls are no-ops.
	CollapsedView bool
	// Blocking: outstanding records block normal use until Signed.
	Blocking bool
	// Dismissible: the recipient may mark the record seen without signing.
	Dismissible bool
}

func ContractFor(kind id.DocumentKind, mandatory bool) Contract {
	switch {
	case kind == id.DocumentKindRiskPack:
		return Contract{RequiresView: true, Blocking: true}
	case mandatory:
		return Contract{CollapsedView: true, Blocking: true}
	default:
		return Contract{Dismissible: true}
	}
}

// SignableFrom lists the statuses a signature may be applied from.
func (c Contract) SignableFrom() []Status {
	if c.RequiresView {
		return []Status{StatusViewed}
	}
	return []Status{StatusPending, StatusViewed}
}
