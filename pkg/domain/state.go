package domain

import "slices"

// Phase defines the current mode of the request lifecycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"    // No request outstanding
	PhaseLoading Phase = "loading" // Waiting for the topic service
	PhaseError   Phase = "error"   // Last request failed
)

// Breadcrumb prefixes used in Session.History.
const (
	TopicPrefix     = "Topic: "
	SelectionPrefix = "Selected: "
)

// User visible failure messages.
const (
	MsgStartFailed  = "Failed to start session"
	MsgSelectFailed = "Failed to process selection"
)

// RequestState is the transient request status. Exactly one phase holds at any time.
type RequestState struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
}

// Idle returns the resting request state.
func Idle() RequestState { return RequestState{Phase: PhaseIdle} }

// Loading returns the in-flight request state.
func Loading() RequestState { return RequestState{Phase: PhaseLoading} }

// Failed returns an error request state carrying a user visible message.
func Failed(msg string) RequestState { return RequestState{Phase: PhaseError, Message: msg} }

func (r RequestState) IsIdle() bool    { return r.Phase == PhaseIdle }
func (r RequestState) IsLoading() bool { return r.Phase == PhaseLoading }
func (r RequestState) IsError() bool   { return r.Phase == PhaseError }

// Session is the active exploration.
type Session struct {
	// ID is the opaque token issued by the topic service.
	ID string `json:"session_id"`

	// Topic is the root subject supplied by the user.
	Topic string `json:"topic"`

	// Menu is the ordered set of labels that can be selected next.
	Menu []string `json:"menu"`

	// History is the breadcrumb path. Append-only for the lifetime of the session.
	History []string `json:"history"`
}

// NewSession creates a session whose history holds only the topic announcement.
func NewSession(id, topic string, menu []string) *Session {
	return &Session{
		ID:      id,
		Topic:   topic,
		Menu:    slices.Clone(menu),
		History: []string{TopicEntry(topic)},
	}
}

// TopicEntry formats the first breadcrumb of a session.
func TopicEntry(topic string) string { return TopicPrefix + topic }

// SelectionEntry formats the breadcrumb appended after a successful selection.
func SelectionEntry(item string) string { return SelectionPrefix + item }

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	return &Session{
		ID:      s.ID,
		Topic:   s.Topic,
		Menu:    slices.Clone(s.Menu),
		History: slices.Clone(s.History),
	}
}

// Advance returns a copy of the session with the menu replaced and the selection
// appended to the history. The receiver is left untouched.
func (s *Session) Advance(item string, submenu []string) *Session {
	next := s.Clone()
	next.Menu = slices.Clone(submenu)
	next.History = append(next.History, SelectionEntry(item))
	return next
}

// State is the single value owned by a navigation controller.
type State struct {
	// Session is nil while no exploration is active.
	Session *Session `json:"session,omitempty"`

	// Request gates which operations are allowed and what may be rendered.
	Request RequestState `json:"request"`

	// Generation distinguishes successive session instances.
	// It increases on every StartSession and Reset.
	Generation uint64 `json:"generation"`
}

// NewState returns the initial state: no session, idle.
func NewState() State {
	return State{Request: Idle()}
}

// Active reports whether a session exists.
func (s State) Active() bool {
	return s.Session != nil && s.Session.ID != ""
}

// SessionID returns the active session ID or an empty string.
func (s State) SessionID() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.ID
}

// Snapshot returns a deep copy of the state, safe to hand to other goroutines.
func (s State) Snapshot() State {
	s.Session = s.Session.Clone()
	return s
}
