package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"siteops/internal/acknowledgment/models"
	"siteops/internal/platform/postgres"
	id "siteops/pkg/domain"
	"siteops/pkg/platform/sentinel"
	txcontext "siteops/pkg/platform/tx"
)

const ackColumns = `document_id, recipient_id, status, assigned_at, viewed_at, signed_at,
	signature, signature_digest, signed_device, comment`

const documentColumns = `id, kind, title, body, content_ref, mandatory, created_by, created_at`

// PostgresStore persists documents and acknowledgments in PostgreSQL. Calls
// made with a transaction in context (see PostgresTx) run inside it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID.String(), string(doc.Kind), doc.Title, doc.Body, doc.ContentRef,
		doc.Mandatory, doc.CreatedBy.String(), doc.CreatedAt,
	)
	if err != nil {
		if postgres.IsConflict(err) {
			return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, docID.String())
	return scanDocument(row)
}

// LockDocument reads the document row with FOR UPDATE. It must run inside a
// transaction; concurrent reconciliations of the same document serialize here.
func (s *PostgresStore) LockDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, docID.String())
	return scanDocument(row)
}

func (s *PostgresStore) ListAcknowledgments(ctx context.Context, docID id.DocumentID) ([]*models.Acknowledgment, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx,
		`SELECT `+ackColumns+` FROM acknowledgments WHERE document_id = $1 ORDER BY recipient_id`,
		docID.String())
	if err != nil {
		return nil, fmt.Errorf("list acknowledgments: %w", err)
	}
	defer rows.Close()

	var out []*models.Acknowledgment
	for rows.Next() {
		ack, err := scanAck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ack)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate acknowledgments: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindAcknowledgment(ctx context.Context, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, error) {
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+ackColumns+` FROM acknowledgments WHERE document_id = $1 AND recipient_id = $2`,
		docID.String(), userID.String())
	ack, err := scanAck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("acknowledgment: %w", sentinel.ErrNotFound)
	}
	return ack, err
}

// InsertPending inserts pending records in one statement. If any recipient
// already has a record the insert reports fewer rows and ErrConflict is
// returned; the enclosing transaction must be rolled back.
func (s *PostgresStore) InsertPending(ctx context.Context, docID id.DocumentID, recipients []id.UserID, at time.Time) (int, error) {
	if len(recipients) == 0 {
		return 0, nil
	}
	res, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `
		INSERT INTO acknowledgments (document_id, recipient_id, status, assigned_at)
		SELECT $1, unnest($2::uuid[]), 'pending', $3
		ON CONFLICT (document_id, recipient_id) DO NOTHING`,
		docID.String(), pq.Array(userIDStrings(recipients)), at,
	)
	if err != nil {
		return 0, fmt.Errorf("insert pending acknowledgments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert pending acknowledgments: %w", err)
	}
	if int(n) != len(recipients) {
		return int(n), fmt.Errorf("acknowledgment already exists: %w", sentinel.ErrConflict)
	}
	return int(n), nil
}

// DeleteUnsigned hard-deletes pending or viewed records. The status guard is in
// the statement so a record signed concurrently survives.
func (s *PostgresStore) DeleteUnsigned(ctx context.Context, docID id.DocumentID, recipients []id.UserID) (int, error) {
	if len(recipients) == 0 {
		return 0, nil
	}
	res, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `
		DELETE FROM acknowledgments
		WHERE document_id = $1 AND recipient_id = ANY($2::uuid[]) AND status <> 'signed'`,
		docID.String(), pq.Array(userIDStrings(recipients)),
	)
	if err != nil {
		return 0, fmt.Errorf("delete unsigned acknowledgments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete unsigned acknowledgments: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) MarkViewed(ctx context.Context, docID id.DocumentID, userID id.UserID, at time.Time) (*models.Acknowledgment, bool, error) {
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx, `
		UPDATE acknowledgments SET status = 'viewed', viewed_at = $3
		WHERE document_id = $1 AND recipient_id = $2 AND status = 'pending'
		RETURNING `+ackColumns,
		docID.String(), userID.String(), at,
	)
	return s.casResult(ctx, row, docID, userID)
}

// MarkSigned writes status, timestamp and signature in one conditional
// UPDATE. When the record is not in one of the from states nothing changes
// and the current record is returned with changed=false.
func (s *PostgresStore) MarkSigned(ctx context.Context, docID id.DocumentID, userID id.UserID, capture models.SignatureCapture, from []models.Status) (*models.Acknowledgment, bool, error) {
	statuses := make([]string, len(from))
	for i, st := range from {
		statuses[i] = string(st)
	}
	row := txcontext.Or(ctx, s.db).QueryRowContext(ctx, `
		UPDATE acknowledgments
		SET status = 'signed', signed_at = $3, signature = $4, signature_digest = $5,
			signed_device = $6, comment = $7
		WHERE document_id = $1 AND recipient_id = $2 AND status = ANY($8::text[])
		RETURNING `+ackColumns,
		docID.String(), userID.String(), capture.At, capture.Payload, capture.Digest,
		capture.Device, capture.Comment, pq.Array(statuses),
	)
	return s.casResult(ctx, row, docID, userID)
}

func (s *PostgresStore) casResult(ctx context.Context, row *sql.Row, docID id.DocumentID, userID id.UserID) (*models.Acknowledgment, bool, error) {
	ack, err := scanAck(row)
	if err == nil {
		return ack, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	current, err := s.FindAcknowledgment(ctx, docID, userID)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (s *PostgresStore) ListOutstanding(ctx context.Context, userID id.UserID) ([]models.Obligation, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, `
		SELECT d.id, d.kind, d.title, d.mandatory, d.content_ref, d.created_at, a.status, a.assigned_at
		FROM acknowledgments a
		JOIN documents d ON d.id = a.document_id
		WHERE a.recipient_id = $1 AND a.status <> 'signed'
		ORDER BY d.created_at, d.id`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list outstanding: %w", err)
	}
	defer rows.Close()

	var out []models.Obligation
	for rows.Next() {
		var (
			o      models.Obligation
			docID  uuid.UUID
			kind   string
			status string
		)
		if err := rows.Scan(&docID, &kind, &o.Title, &o.Mandatory, &o.ContentRef, &o.DocCreatedAt, &status, &o.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		o.DocumentID = id.DocumentID(docID)
		o.Kind = id.DocumentKind(kind)
		if o.Status, err = models.ParseStatus(status); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate obligations: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*models.Document, error) {
	var (
		doc       models.Document
		docID     uuid.UUID
		createdBy uuid.UUID
		kind      string
	)
	err := row.Scan(&docID, &kind, &doc.Title, &doc.Body, &doc.ContentRef, &doc.Mandatory, &createdBy, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.ID = id.DocumentID(docID)
	doc.CreatedBy = id.UserID(createdBy)
	doc.Kind = id.DocumentKind(kind)
	return &doc, nil
}

// scanAck returns sql.ErrNoRows unwrapped so callers can branch on it.
func scanAck(row scanner) (*models.Acknowledgment, error) {
	var (
		ack                                models.Acknowledgment
		docID, recipient                   uuid.UUID
		status                             string
		viewedAt, signedAt                 sql.NullTime
		signature, digest, device, comment sql.NullString
	)
	err := row.Scan(&docID, &recipient, &status, &ack.AssignedAt, &viewedAt, &signedAt,
		&signature, &digest, &device, &comment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan acknowledgment: %w", err)
	}
	ack.DocumentID = id.DocumentID(docID)
	ack.RecipientID = id.UserID(recipient)
	if ack.Status, err = models.ParseStatus(status); err != nil {
		return nil, err
	}
	if viewedAt.Valid {
		t := viewedAt.Time
		ack.ViewedAt = &t
	}
	if signedAt.Valid {
		t := signedAt.Time
		ack.SignedAt = &t
	}
	ack.Signature = signature.String
	ack.SignatureDigest = digest.String
	ack.SignedDevice = device.String
	ack.Comment = comment.String
	return &ack, nil
}

func userIDStrings(ids []id.UserID) []string {
	out := make([]string, len(ids))
	for i, u := range ids {
		out[i] = u.String()
	}
	return out
}
