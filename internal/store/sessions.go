// ABOUTME: Session persistence operations for the SQLite store
// ABOUTME: Each row binds one opaque token to one user; deletes are idempotent

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CreateSession inserts a new session binding
func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at)
		VALUES (?, ?, ?)
	`, session.Token, session.UserID, session.CreatedAt.Format(time.RFC3339))

	return err
}

// GetSession retrieves a session by token. Returns ErrNotFound for unknown tokens.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*Session, error) {
	var sess Session
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at
		FROM sessions WHERE token = ?
	`, token).Scan(&sess.Token, &sess.UserID, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &sess, nil
}

// DeleteSession removes a session. Deleting an unknown token is a no-op,
// so callers cannot learn whether a token was ever valid.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// ListSessions returns all sessions ordered by creation time
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, user_id, created_at
		FROM sessions ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var createdAt string
		if err := rows.Scan(&sess.Token, &sess.UserID, &createdAt); err != nil {
			return nil, err
		}
		sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}
