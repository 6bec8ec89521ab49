package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "siteops/pkg/domain"
	"siteops/pkg/platform/sentinel"
	pstrings "siteops/pkg/platform/strings"
	txcontext "siteops/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, user *User) error {
	_, err := txcontext.Or(ctx, s.db).ExecContext(ctx, `
		INSERT INTO directory_users (id, email, full_name, roles, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			roles = EXCLUDED.roles,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`,
		user.ID.String(), user.Email, user.FullName, pq.Array(user.Roles), user.Active, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert directory user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (*User, error) {
	var (
		u     User
		uid   uuid.UUID
		roles pq.StringArray
	)
	err := txcontext.Or(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, email, full_name, roles, active, updated_at
		FROM directory_users WHERE id = $1`, userID.String(),
	).Scan(&uid, &u.Email, &u.FullName, &roles, &u.Active, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find directory user: %w", err)
	}
	u.ID = id.UserID(uid)
	u.Roles = []string(roles)
	return &u, nil
}

func (s *PostgresStore) FindActive(ctx context.Context, ids []id.UserID) ([]id.UserID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, u := range ids {
		raw[i] = u.String()
	}
	return s.queryIDs(ctx, `
		SELECT id FROM directory_users
		WHERE active AND id = ANY($1::uuid[])
		ORDER BY id::text`, pq.Array(raw))
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]id.UserID, error) {
	return s.queryIDs(ctx, `SELECT id FROM directory_users WHERE active ORDER BY id::text`)
}

// ListActiveByRoles uses the array overlap operator, served by the GIN index.
func (s *PostgresStore) ListActiveByRoles(ctx context.Context, roles []string) ([]id.UserID, error) {
	roles = pstrings.NormalizeSet(roles)
	if len(roles) == 0 {
		return nil, nil
	}
	return s.queryIDs(ctx, `
		SELECT id FROM directory_users
		WHERE active AND roles && $1::text[]
		ORDER BY id::text`, pq.Array(roles))
}

func (s *PostgresStore) queryIDs(ctx context.Context, query string, args ...any) ([]id.UserID, error) {
	rows, err := txcontext.Or(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}
	defer rows.Close()

	var out []id.UserID
	for rows.Next() {
		var uid uuid.UUID
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan directory id: %w", err)
		}
		out = append(out, id.UserID(uid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory: %w", err)
	}
	return out, nil
}
