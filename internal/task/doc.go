// Package task provides owner-scoped task management.
//
// All operations take the owner ID resolved by the auth middleware. The owner
// of a new task is always the authenticated identity; it is never read from
// client input. Reads and mutations of tasks owned by a different user report
// store.ErrNotFound, identical to a genuinely missing ID, so the existence of
// other users' tasks never leaks through this package.
package task
