// ABOUTME: Tests for the HTTP authentication middleware
// ABOUTME: Covers token extraction, identity propagation, and uniform 401 responses

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/taskyhq/tasky-server/internal/store"
)

func setupMiddlewareTest(t *testing.T) (func(http.Handler) http.Handler, string, *store.User) {
	t.Helper()

	users := newMemUserStore()
	user := &store.User{Username: "alice", PasswordHash: "x"}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	registry := NewSessionRegistry(newMemSessionStore(), 0)
	token, err := registry.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	return Middleware(registry, users, slog.Default()), token, user
}

func TestMiddleware_ValidToken(t *testing.T) {
	middleware, token, user := setupMiddlewareTest(t)

	var gotIdentity *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if gotIdentity == nil {
		t.Fatal("expected Identity in context")
	}
	if gotIdentity.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", gotIdentity.UserID, user.ID)
	}
	if gotIdentity.Username != "alice" {
		t.Errorf("Username = %q, want %q", gotIdentity.Username, "alice")
	}
}

func TestMiddleware_UniformUnauthorizedResponses(t *testing.T) {
	middleware, _, _ := setupMiddlewareTest(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer 0000000000000000000000000000000000000000000000000000000000000000"},
		{"malformed token", "Bearer short"},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			middleware(handler).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			bodies = append(bodies, rec.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("response bodies differ between failure modes: %q vs %q", bodies[0], bodies[i])
		}
	}
}

func TestMiddleware_RevokedToken(t *testing.T) {
	users := newMemUserStore()
	user := &store.User{Username: "alice", PasswordHash: "x"}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	registry := NewSessionRegistry(newMemSessionStore(), 0)
	token, err := registry.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := registry.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	middleware := Middleware(registry, users, slog.Default())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called after revocation")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", ""},
		{"Basic abc", ""},
		{"Bearer ", ""},
	}

	for _, tt := range tests {
		if got := extractBearerToken(tt.header); got != tt.want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestFromContext_Missing(t *testing.T) {
	if id := FromContext(context.Background()); id != nil {
		t.Errorf("FromContext() on empty context = %v, want nil", id)
	}
}

func TestMustFromContext_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustFromContext() should panic without an identity")
		}
	}()
	MustFromContext(context.Background())
}
