// Package server wires the HTTP API for tasky-server.
//
// # Routes
//
// Public:
//
//	GET  /                   welcome message
//	GET  /health             liveness check
//	POST /api/auth/register  create an account, returns a session token
//	POST /api/auth/login     verify credentials, returns a session token
//
// Authenticated (Authorization: Bearer <token>):
//
//	POST   /api/auth/logout
//	GET    /api/tasks
//	POST   /api/tasks
//	GET    /api/tasks/{id}
//	PUT    /api/tasks/{id}
//	DELETE /api/tasks/{id}
//	POST   /api/tasks/suggest-improvements
//
// Every authenticated route sits behind auth.Middleware, so no task handler
// runs without a resolved identity. Task handlers take the owner from that
// identity only; a task ID that exists but belongs to another user produces
// the same 404 as a missing ID.
package server
