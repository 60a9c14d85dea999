// ABOUTME: Credential service handling registration, login, and logout
// ABOUTME: Enforces identity uniqueness and uniform errors that resist enumeration

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskyhq/tasky-server/internal/store"
)

// Credential errors surfaced to the transport layer
var (
	// ErrInvalidCredentials covers unknown identity and wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username or email already taken")
	ErrInvalidInput       = errors.New("invalid input")
)

const minPasswordLength = 6

// Service wires the credential store, password hasher, and session registry
// into the registration and login flows.
type Service struct {
	users    store.UserStore
	hasher   *PasswordHasher
	registry *SessionRegistry
	logger   *slog.Logger
}

// NewService creates a credential service
func NewService(users store.UserStore, hasher *PasswordHasher, registry *SessionRegistry, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		registry: registry,
		logger:   logger.With("component", "auth"),
	}
}

// Register creates a new account and issues a session token for it.
// The plaintext password is hashed immediately and never stored or logged.
func (s *Service) Register(ctx context.Context, username, email, password string) (*store.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &store.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.registry.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, token, nil
}

// Login verifies credentials and issues a session token.
// Unknown identity and wrong password return the same error, and the dummy
// hash comparison keeps the two paths close in timing.
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*store.User, string, error) {
	if usernameOrEmail == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.users.GetUserByLogin(ctx, usernameOrEmail)
	if errors.Is(err, store.ErrNotFound) {
		s.hasher.VerifyDummy(password)
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.registry.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout revokes the session token. Always succeeds from the caller's
// perspective; revoking an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.registry.Revoke(ctx, token)
}
