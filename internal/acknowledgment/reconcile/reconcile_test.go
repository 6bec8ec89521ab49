package reconcile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
)

func record(doc id.DocumentID, u id.UserID, status models.Status) *models.Acknowledgment {
	ack := models.NewPending(doc, u, time.Now())
	switch status {
	case models.StatusViewed:
		ack.ApplyView(time.Now())
	case models.StatusSigned:
		ack.ApplySign(models.SignatureCapture{Payload: "sig", At: time.Now()})
	}
	return ack
}

func TestDiff(t *testing.T) {
	doc := id.NewDocumentID()
	pending, viewed, signed, fresh := id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New())
	current := []*models.Acknowledgment{
		record(doc, pending, models.StatusPending),
		record(doc, viewed, models.StatusViewed),
		record(doc, signed, models.StatusSigned),
	}

	t.Run("no change when desired matches", func(t *testing.T) {
		plan := Diff(current, []id.UserID{pending, viewed, signed})
		assert.True(t, plan.IsEmpty())
		assert.Empty(t, plan.Retained)
	})

	t.Run("adds new and removes unsigned", func(t *testing.T) {
		plan := Diff(current, []id.UserID{pending, fresh})
		assert.Equal(t, []id.UserID{fresh}, plan.ToAdd)
		assert.Equal(t, []id.UserID{viewed}, plan.ToRemove)
		assert.Equal(t, []id.UserID{signed}, plan.Retained)
	})

	t.Run("empty desired never removes signed", func(t *testing.T) {
		plan := Diff(current, nil)
		assert.Empty(t, plan.ToAdd)
		assert.ElementsMatch(t, []id.UserID{pending, viewed}, plan.ToRemove)
		assert.Equal(t, []id.UserID{signed}, plan.Retained)
	})

	t.Run("first assignment", func(t *testing.T) {
		plan := Diff(nil, []id.UserID{fresh, pending})
		assert.ElementsMatch(t, []id.UserID{fresh, pending}, plan.ToAdd)
		assert.Empty(t, plan.ToRemove)
	})

	t.Run("deterministic order", func(t *testing.T) {
		desired := []id.UserID{fresh, id.UserID(uuid.New()), id.UserID(uuid.New())}
		a := Diff(nil, desired)
		b := Diff(nil, []id.UserID{desired[2], desired[0], desired[1]})
		assert.Equal(t, a, b)
	})
}

func TestDiffIsIdempotentAfterApply(t *testing.T) {
	doc := id.NewDocumentID()
	a, b := id.UserID(uuid.New()), id.UserID(uuid.New())
	plan := Diff(nil, []id.UserID{a, b})

	var applied []*models.Acknowledgment
	for _, u := range plan.ToAdd {
		applied = append(applied, record(doc, u, models.StatusPending))
	}
	assert.True(t, Diff(applied, []id.UserID{a, b}).IsEmpty())
}
