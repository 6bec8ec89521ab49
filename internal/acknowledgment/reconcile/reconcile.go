// Package reconcile computes the delta between a document's current
// acknowledgment records and a desired recipient set.
package reconcile

import (
	"slices"
	"strings"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
)

// Plan is the delta to apply. Signed records never appear in ToRemove.
type Plan struct {
	// ToAdd: desired recipients with no record yet.
	ToAdd []id.UserID
	// ToRemove: recipients with a pending or viewed record who are no longer desired.
	ToRemove []id.UserID
	// Retained: signed recipients kept although no longer desired.
	Retained []id.UserID
}

func (p Plan) IsEmpty() bool {
	return len(p.ToAdd) == 0 && len(p.ToRemove) == 0
}

// Diff is pure; every slice in the result is sorted by ID string so the same
// inputs always produce the same plan.
func Diff(current []*models.Acknowledgment, desired []id.UserID) Plan {
	want := make(map[id.UserID]struct{}, len(desired))
	for _, u := range desired {
		want[u] = struct{}{}
	}

	have := make(map[id.UserID]struct{}, len(current))
	var plan Plan
	for _, ack := range current {
		have[ack.RecipientID] = struct{}{}
		if _, ok := want[ack.RecipientID]; ok {
			continue
		}
		if ack.IsSigned() {
			plan.Retained = append(plan.Retained, ack.RecipientID)
			continue
		}
		plan.ToRemove = append(plan.ToRemove, ack.RecipientID)
	}
	for u := range want {
		if _, ok := have[u]; !ok {
			plan.ToAdd = append(plan.ToAdd, u)
		}
	}

	sortIDs(plan.ToAdd)
	sortIDs(plan.ToRemove)
	sortIDs(plan.Retained)
	return plan
}

func sortIDs(ids []id.UserID) {
	slices.SortFunc(ids, func(a, b id.UserID) int { return strings.Compare(a.String(), b.String()) })
}
