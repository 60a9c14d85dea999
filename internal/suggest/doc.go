// Package suggest calls a generative model to improve task wording.
//
// The client talks to the Gemini generateContent REST endpoint and asks for a
// strict-JSON rewrite of a task's title and description. It requires an
// already-authenticated caller but has no authorization logic of its own.
//
// When no API key is configured, or the upstream cannot be reached, Improve
// returns ErrUnavailable so the transport layer can report a distinct
// service-unavailable error instead of an authentication failure.
package suggest
