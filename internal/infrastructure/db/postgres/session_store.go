package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// SessionStore implements ports.SessionStore on the personal_access_tokens table.
type SessionStore struct {
	pool pool
}

func NewSessionStore(p pool) *SessionStore {
	return &SessionStore{pool: p}
}

const insertSession = `
	INSERT INTO personal_access_tokens (id, user_id, name, token_hash, created_at)
	VALUES ($1, $2, $3, $4, $5)
`

func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	_, err := s.pool.Exec(ctx, insertSession,
		session.ID, session.UserID, session.Name, session.TokenHash, session.CreatedAt)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("user_id", session.UserID).
			Wrap(err)
	}
	return nil
}

// Replace deletes every session of userID and inserts session, if non-nil,
// in one transaction. A per-user advisory lock serialises concurrent
// replacements so at most one of them survives.
func (s *SessionStore) Replace(ctx context.Context, userID string, session *domain.Session) (revoked int64, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, oops.Code("SESSION_REPLACE_FAILED").With("operation", "begin").Wrap(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return 0, oops.Code("SESSION_REPLACE_FAILED").With("operation", "lock").With("user_id", userID).Wrap(err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM personal_access_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, oops.Code("SESSION_REPLACE_FAILED").With("operation", "delete").With("user_id", userID).Wrap(err)
	}

	if session != nil {
		_, err = tx.Exec(ctx, insertSession,
			session.ID, session.UserID, session.Name, session.TokenHash, session.CreatedAt)
		if err != nil {
			return 0, oops.Code("SESSION_REPLACE_FAILED").With("operation", "insert").With("user_id", userID).Wrap(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, oops.Code("SESSION_REPLACE_FAILED").With("operation", "commit").With("user_id", userID).Wrap(err)
	}
	return tag.RowsAffected(), nil
}

func (s *SessionStore) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, name, token_hash, created_at
		FROM personal_access_tokens
		WHERE id = $1
	`, id).Scan(&sess.ID, &sess.UserID, &sess.Name, &sess.TokenHash, &sess.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").With("id", id).Wrap(err)
	}
	sess.CreatedAt = sess.CreatedAt.UTC()
	return &sess, nil
}
