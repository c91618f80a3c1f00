package http

import "github.com/ewallt/ai-subject-explorer/pkg/domain"

// StartSessionRequest is the body of POST /sessions.
type StartSessionRequest struct {
	Topic string `json:"topic"`
}

// StartSessionResponse is returned by POST /sessions.
type StartSessionResponse struct {
	SessionID string   `json:"session_id"`
	Menu      []string `json:"menu"`
}

// SelectItemRequest is the body of POST /sessions/{sessionId}/selections.
type SelectItemRequest struct {
	Item string `json:"item"`
}

// SelectItemResponse is returned by POST /sessions/{sessionId}/selections.
type SelectItemResponse struct {
	Menu []string `json:"menu"`
}

// SessionList is returned by GET /sessions.
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Update types streamed to session subscribers.
const (
	UpdateSelection = "selection"
	UpdateEnded     = "ended"
)

// Update is the payload of a session event stream.
type Update struct {
	Type        string              `json:"type"`
	SessionID   string              `json:"session_id"`
	Item        string              `json:"item,omitempty"`
	Exploration *domain.Exploration `json:"exploration,omitempty"`
}
