// Package auth provides authentication and session management for tasky-server.
//
// # Components
//
//   - PasswordHasher: bcrypt hashing and verification. Each hash is salted
//     independently; verification against a dummy digest keeps timing uniform
//     when the account does not exist.
//
//   - SessionRegistry: issues opaque crypto/rand bearer tokens, resolves them
//     back to a user ID, and revokes them. Backed by an injectable
//     store.SessionStore. An optional TTL rejects (and lazily deletes)
//     sessions older than the configured maximum age.
//
//   - Service: registration, login, and logout flows on top of the hasher and
//     registry. Unknown identity and wrong password produce the same
//     ErrInvalidCredentials so responses cannot be used to enumerate accounts.
//
// # HTTP Middleware
//
// Middleware authenticates requests via the Authorization header:
//
//	Authorization: Bearer <token>
//
// On success the resolved identity is attached to the request context:
//
//	id := auth.MustFromContext(r.Context())
//
// Every authentication failure (missing header, malformed header, unknown or
// expired token) yields the same 401 response body. Handlers registered
// behind the middleware are unreachable without a valid token.
package auth
