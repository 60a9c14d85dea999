// ABOUTME: Store interfaces and data types for tasky-server persistence
// ABOUTME: Defines User, Session, Task structs and the store interfaces for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
// Task lookups scoped to an owner also return ErrNotFound for tasks owned
// by someone else, so callers cannot distinguish the two cases.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUser is returned when a username or email is already registered
var ErrDuplicateUser = errors.New("user already exists")

// User is a registered account. PasswordHash holds the bcrypt digest;
// the plaintext password is never stored.
type User struct {
	ID           string
	Username     string
	Email        string // optional, unique when set
	PasswordHash string
	CreatedAt    time.Time
}

// Session binds an opaque bearer token to a user
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

// Task is a single task owned by exactly one user
type Task struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Completed   bool
	Deadline    *time.Time
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows ListTasks results. Nil/empty fields match everything.
type TaskFilter struct {
	Completed *bool
	Tag       string
}

// UserStore persists user accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByLogin(ctx context.Context, usernameOrEmail string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// SessionStore persists session token bindings
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	// DeleteSession removes a session. Deleting an unknown token is a no-op.
	DeleteSession(ctx context.Context, token string) error
	ListSessions(ctx context.Context) ([]*Session, error)
}

// TaskStore persists tasks. All lookups and mutations are scoped to an owner.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, ownerID, id string) (*Task, error)
	ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, ownerID, id string) error
}

// Store is the full persistence surface used by the server
type Store interface {
	UserStore
	SessionStore
	TaskStore
	Close() error
}
