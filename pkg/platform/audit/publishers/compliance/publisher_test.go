package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "siteops/pkg/domain"
	audit "siteops/pkg/platform/audit"
	"siteops/pkg/platform/audit/store/memory"
)

type brokenStore struct{}

func (brokenStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }

func TestPublisher_Emit(t *testing.T) {
	t.Run("persists with derived category", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := New(store, WithMetrics(NewMetrics(prometheus.NewRegistry())))

		err := pub.Emit(context.Background(), audit.Event{
			UserID: id.UserID(uuid.New()),
			Action: string(audit.EventAcknowledgmentSign),
		})
		require.NoError(t, err)

		events := store.All()
		require.Len(t, events, 1)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
		assert.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("requires a user", func(t *testing.T) {
		err := New(memory.NewInMemoryStore()).Emit(context.Background(), audit.Event{Action: "x"})
		assert.Error(t, err)
	})

	t.Run("fails closed when the store fails", func(t *testing.T) {
		err := New(brokenStore{}).Emit(context.Background(), audit.Event{
			UserID: id.UserID(uuid.New()),
			Action: string(audit.EventRecipientAssigned),
		})
		assert.Error(t, err)
	})
}
