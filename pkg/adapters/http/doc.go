// Package http exposes a topic service over HTTP and provides a matching client.
//
// The contract lives in openapi.yaml, embedded in the binary and served on
// /openapi.yaml. Requests to the session routes are validated against it before
// reaching the handlers. GET /events streams session updates (with session_id)
// or catalog reloads (without) as server-sent events.
package http
