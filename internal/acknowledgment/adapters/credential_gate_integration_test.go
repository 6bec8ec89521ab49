//go:build integration

package adapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"siteops/internal/acknowledgment/adapters"
	"siteops/internal/acknowledgment/models"
	"siteops/internal/acknowledgment/sequencer"
	"siteops/internal/acknowledgment/store"
	id "siteops/pkg/domain"
	"siteops/pkg/testutil/containers"
)

type CredentialGateSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	gate  *adapters.RedisCredentialGate
}

func TestCredentialGateSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CredentialGateSuite))
}

func (s *CredentialGateSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.gate = adapters.NewRedisCredentialGate(s.redis.Client, "it:gate:")
}

func (s *CredentialGateSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

// TestGatedUserSeesNoObligations verifies the sequencer does not run while
// the credential flag is set, and presents the queue once it is cleared.
func (s *CredentialGateSuite) TestGatedUserSeesNoObligations() {
	ctx := context.Background()
	st := store.NewInMemoryStore()
	user := id.UserID(uuid.New())

	doc, err := models.NewDocument(id.NewDocumentID(), id.DocumentKindBulletin, "Site induction", "Read before entry.",
		"", true, id.UserID(uuid.New()), time.Now())
	s.Require().NoError(err)
	s.Require().NoError(st.CreateDocument(ctx, doc))
	_, err = st.InsertPending(ctx, doc.ID, []id.UserID{user}, time.Now())
	s.Require().NoError(err)

	seq := sequencer.New(st, sequencer.WithGate(s.gate))
	s.Require().NoError(s.gate.Require(ctx, user, "password expired", time.Minute))

	q, err := seq.Queue(ctx, user)
	s.Require().NoError(err)
	s.True(q.Gated)
	s.Equal("password expired", q.GateReason)
	s.Empty(q.Blocking)

	s.Require().NoError(s.gate.Clear(ctx, user))
	q, err = seq.Queue(ctx, user)
	s.Require().NoError(err)
	s.False(q.Gated)
	s.Len(q.Blocking, 1)
}
