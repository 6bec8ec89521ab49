package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	"siteops/pkg/platform/sentinel"
)

var ackRowColumns = []string{"document_id", "recipient_id", "status", "assigned_at", "viewed_at", "signed_at",
	"signature", "signature_digest", "signed_device", "comment"}

func newMockStore(t *testing.T) (*PostgresStore, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), db, mock
}

func TestPostgresStore_InsertPendingReportsConflict(t *testing.T) {
	st, _, mock := newMockStore(t)
	docID := id.NewDocumentID()
	alice, bob := id.UserID(uuid.New()), id.UserID(uuid.New())
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO acknowledgments (document_id, recipient_id, status, assigned_at)`)).
		WithArgs(docID.String(), pq.Array([]string{alice.String(), bob.String()}), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := st.InsertPending(context.Background(), docID, []id.UserID{alice, bob}, at)
	assert.Equal(t, 1, n)
	require.ErrorIs(t, err, sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteUnsignedGuardsStatus(t *testing.T) {
	st, _, mock := newMockStore(t)
	docID := id.NewDocumentID()
	alice := id.UserID(uuid.New())

	mock.ExpectExec(regexp.QuoteMeta(`AND status <> 'signed'`)).
		WithArgs(docID.String(), pq.Array([]string{alice.String()})).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := st.DeleteUnsigned(context.Background(), docID, []id.UserID{alice})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkSignedNoopReturnsCurrent(t *testing.T) {
	st, _, mock := newMockStore(t)
	docID := id.NewDocumentID()
	alice := id.UserID(uuid.New())
	signedAt := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE acknowledgments`)).
		WithArgs(docID.String(), alice.String(), sqlmock.AnyArg(), "second", "", "", "", pq.Array([]string{"viewed"})).
		WillReturnRows(sqlmock.NewRows(ackRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM acknowledgments WHERE document_id = $1 AND recipient_id = $2`)).
		WithArgs(docID.String(), alice.String()).
		WillReturnRows(sqlmock.NewRows(ackRowColumns).AddRow(
			docID.String(), alice.String(), "signed", signedAt, signedAt, signedAt, "first", "d", "", "",
		))

	ack, changed, err := st.MarkSigned(context.Background(), docID, alice,
		models.SignatureCapture{Payload: "second", At: time.Now()}, []models.Status{models.StatusViewed})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "first", ack.Signature)
	assert.True(t, ack.IsSigned())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkViewedMissingRecord(t *testing.T) {
	st, _, mock := newMockStore(t)
	docID := id.NewDocumentID()
	alice := id.UserID(uuid.New())

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE acknowledgments SET status = 'viewed'`)).
		WillReturnRows(sqlmock.NewRows(ackRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT document_id`)).
		WillReturnRows(sqlmock.NewRows(ackRowColumns))

	_, _, err := st.MarkViewed(context.Background(), docID, alice, time.Now())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListOutstanding(t *testing.T) {
	st, _, mock := newMockStore(t)
	alice := id.UserID(uuid.New())
	docID := id.NewDocumentID()
	created := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.recipient_id = $1 AND a.status <> 'signed'`)).
		WithArgs(alice.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "title", "mandatory", "content_ref", "created_at", "status", "assigned_at"}).
			AddRow(docID.String(), "risk_pack", "Excavation", true, "files/x.pdf", created, "viewed", created))

	got, err := st.ListOutstanding(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, docID, got[0].DocumentID)
	assert.Equal(t, models.StatusViewed, got[0].Status)
	assert.True(t, got[0].Contract().RequiresView)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDocumentDriverError(t *testing.T) {
	st, _, mock := newMockStore(t)
	doc, err := models.NewDocument(id.NewDocumentID(), id.DocumentKindBulletin, "Noise", "Wear ear defenders", "",
		true, id.UserID(uuid.New()), time.Now())
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents`)).
		WillReturnError(errors.New("connection reset"))

	err = st.CreateDocument(context.Background(), doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTx_CommitsAndRollsBack(t *testing.T) {
	_, db, mock := newMockStore(t)
	runner := NewPostgresTx(db, time.Second)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, runner.RunInTx(context.Background(), func(context.Context) error { return nil }))

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	require.ErrorIs(t, runner.RunInTx(context.Background(), func(context.Context) error { return boom }), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runner.RunInTx(ctx, func(context.Context) error { return nil })
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))

	assert.NoError(t, mock.ExpectationsWereMet())
}
