// ABOUTME: In-memory store fakes shared by auth package tests
// ABOUTME: Implement store.UserStore and store.SessionStore over guarded maps

package auth

import (
	"context"
	"strconv"
	"sync"

	"github.com/taskyhq/tasky-server/internal/store"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]*store.User // keyed by ID
	seq   int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*store.User)}
}

func (m *memUserStore) CreateUser(_ context.Context, user *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
			return store.ErrDuplicateUser
		}
	}
	if user.ID == "" {
		m.seq++
		user.ID = "user-" + strconv.Itoa(m.seq)
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) GetUser(_ context.Context, id string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) GetUserByLogin(_ context.Context, login string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || (u.Email != "" && u.Email == login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) ListUsers(_ context.Context) ([]*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*store.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*store.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*store.Session)}
}

func (m *memSessionStore) CreateSession(_ context.Context, session *store.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.sessions[session.Token] = &cp
	return nil
}

func (m *memSessionStore) GetSession(_ context.Context, token string) (*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memSessionStore) ListSessions(_ context.Context) ([]*store.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*store.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}
