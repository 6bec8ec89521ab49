// Package sequencer orders a user's outstanding acknowledgments into the
// queue presented at session start: blocking items one at a time in a fixed
// order, then dismissible advisories once nothing blocks.
package sequencer

import (
	"cmp"
	"slices"
	"time"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
)

// Item is one presentable obligation.
type Item struct {
	DocumentID   id.DocumentID   `json:"document_id"`
	Kind         id.DocumentKind `json:"kind"`
	Title        string          `json:"title"`
	Status       models.Status   `json:"status"`
	Mandatory    bool            `json:"mandatory"`
	Dismissable  bool            `json:"dismissable"`
	RequiresView bool            `json:"requires_view"`
	ContentRef   string          `json:"content_ref,omitempty"`
	CreatedAt    time.Time       `json:"document_created_at"`
}

// Queue is a snapshot for one user.
//
// Invariants:
//   - Blocking and Dismissible are each ordered by document creation time, then document ID
//   - Dismissible items are presented only when Blocking is empty
//   - A gated queue has no items
type Queue struct {
	UserID      id.UserID `json:"user_id"`
	Gated       bool      `json:"gated"`
	GateReason  string    `json:"gate_reason,omitempty"`
	Blocking    []Item    `json:"blocking"`
	Dismissible []Item    `json:"dismissible"`
}

// Build is a pure function of the stored obligations. Signed obligations and
// advisories already seen are dropped.
func Build(userID id.UserID, obligations []models.Obligation) *Queue {
	q := &Queue{UserID: userID, Blocking: []Item{}, Dismissible: []Item{}}
	for _, o := range obligations {
		if o.Status == models.StatusSigned {
			continue
		}
		c := o.Contract()
		item := Item{
			DocumentID:   o.DocumentID,
			Kind:         o.Kind,
			Title:        o.Title,
			Status:       o.Status,
			Mandatory:    o.Mandatory,
			RequiresView: c.RequiresView,
			ContentRef:   o.ContentRef,
			CreatedAt:    o.DocCreatedAt,
		}
		switch {
		case c.Blocking:
			q.Blocking = append(q.Blocking, item)
		case c.Dismissible && o.Status == models.StatusPending:
			item.Dismissable = true
			q.Dismissible = append(q.Dismissible, item)
		}
	}
	slices.SortFunc(q.Blocking, compareItems)
	slices.SortFunc(q.Dismissible, compareItems)
	return q
}

// Gated returns the queue shown while a precondition is unmet.
func Gated(userID id.UserID, reason string) *Queue {
	return &Queue{UserID: userID, Gated: true, GateReason: reason, Blocking: []Item{}, Dismissible: []Item{}}
}

func compareItems(a, b Item) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.DocumentID.String(), b.DocumentID.String())
}

// Next returns the single item to present, if any.
func (q *Queue) Next() (Item, bool) {
	if q.Gated {
		return Item{}, false
	}
	if len(q.Blocking) > 0 {
		return q.Blocking[0], true
	}
	if len(q.Dismissible) > 0 {
		return q.Dismissible[0], true
	}
	return Item{}, false
}

// IsBlocked reports whether normal use must wait.
func (q *Queue) IsBlocked() bool {
	return q.Gated || len(q.Blocking) > 0
}

// Items lists everything in presentation order.
func (q *Queue) Items() []Item {
	if q.Gated {
		return nil
	}
	out := make([]Item, 0, len(q.Blocking)+len(q.Dismissible))
	out = append(out, q.Blocking...)
	return append(out, q.Dismissible...)
}
