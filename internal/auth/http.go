// ABOUTME: HTTP middleware for bearer-token authentication on API endpoints
// ABOUTME: Resolves the session token and adds the identity to the request context

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskyhq/tasky-server/internal/store"
)

// unauthorizedBody is the single response body for every authentication
// failure: missing header, malformed header, unknown token, expired token.
// A uniform response prevents probing for which case occurred.
const unauthorizedBody = `{"error":"invalid or missing token"}`

// TokenResolver maps a bearer token to a user ID
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns an empty string when the header is missing or malformed.
func extractBearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// Middleware creates an HTTP middleware that authenticates requests via the
// session registry. Handlers behind it can rely on MustFromContext.
// No route registered behind this middleware is reachable without a valid token.
func Middleware(registry TokenResolver, users store.UserStore, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("component", "auth-middleware")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeUnauthorized(w)
				return
			}

			userID, err := registry.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) {
					log.Error("resolving token", "error", err)
				}
				writeUnauthorized(w)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				// Session references a user that no longer resolves; treat as
				// unauthenticated rather than leaking the distinction.
				writeUnauthorized(w)
				return
			}

			id := &Identity{UserID: user.ID, Username: user.Username}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
