// ABOUTME: Session registry issuing, resolving, and revoking opaque bearer tokens
// ABOUTME: Tokens are crypto/rand values bound to a user through an injectable store

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/taskyhq/tasky-server/internal/store"
)

// ErrInvalidToken is returned for unknown, expired, and malformed tokens alike
var ErrInvalidToken = errors.New("invalid token")

// tokenBytes is the entropy of an issued token (hex-encoded to 64 characters)
const tokenBytes = 32

// SessionRegistry issues and resolves opaque session tokens.
// The backing SessionStore is injected so tests can use an in-memory
// database and production can share the server's SQLite store.
type SessionRegistry struct {
	sessions store.SessionStore
	ttl      time.Duration
	nowFunc  func() time.Time
}

// NewSessionRegistry creates a registry backed by the given store.
// A zero ttl disables session expiry.
func NewSessionRegistry(sessions store.SessionStore, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		sessions: sessions,
		ttl:      ttl,
		nowFunc:  time.Now,
	}
}

// Issue generates a new high-entropy token bound to the given user
func (r *SessionRegistry) Issue(ctx context.Context, userID string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	session := &store.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: r.nowFunc(),
	}
	if err := r.sessions.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

// Resolve maps a token back to its user ID. Unknown and expired tokens both
// return ErrInvalidToken; expired sessions are deleted on the way out.
func (r *SessionRegistry) Resolve(ctx context.Context, token string) (string, error) {
	session, err := r.sessions.GetSession(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("looking up session: %w", err)
	}

	if r.ttl > 0 && r.nowFunc().After(session.CreatedAt.Add(r.ttl)) {
		_ = r.sessions.DeleteSession(ctx, token)
		return "", ErrInvalidToken
	}

	return session.UserID, nil
}

// Revoke removes a session. Revoking an unknown or already-revoked token is a
// no-op, so logout never reveals whether a token was ever valid.
func (r *SessionRegistry) Revoke(ctx context.Context, token string) error {
	return r.sessions.DeleteSession(ctx, token)
}

// generateToken returns a hex-encoded token with tokenBytes of entropy
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
