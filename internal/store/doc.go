// Package store provides persistent storage for tasky-server using SQLite.
//
// # Architecture
//
// The package uses an interface-driven architecture with specialized interfaces:
//
//   - UserStore: account creation and identity lookup
//   - SessionStore: opaque token bindings
//   - TaskStore: owner-scoped task CRUD
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Ownership Scoping
//
// Every TaskStore read and mutation carries the owner ID in the WHERE clause.
// A task owned by a different user is reported as ErrNotFound, identical to a
// genuinely missing ID, so existence of other users' tasks never leaks.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Each mutation is a single statement, so concurrent readers observe either
// the pre- or post-state of a write, never a partial update.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: entity does not exist (or task belongs to someone else)
//   - ErrDuplicateUser: username or email already registered
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewSQLiteStore(":memory:") or a t.TempDir() path for tests with real SQLite.
package store
