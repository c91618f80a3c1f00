package domain

import (
	"slices"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// Generation is always present so clients can order updates.
	Generation uint64 `json:"generation"`

	// SessionID is set when the active session changed. An empty value means the
	// session was dropped.
	SessionID *string `json:"session_id,omitempty"`

	// Topic is set together with a new session.
	Topic *string `json:"topic,omitempty"`

	// Menu carries the whole new menu when it changed.
	Menu []string `json:"menu,omitempty"`

	// Request is set when the phase or error message changed.
	Request *RequestState `json:"request,omitempty"`

	// History holds new breadcrumbs.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta represents changes to the breadcrumb path.
// Replace is true when Appended starts a new history instead of extending the old one.
type HistoryDelta struct {
	Appended []string `json:"appended"`
	Replace  bool     `json:"replace,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed, generation included.
func Diff(oldState *State, newState State) *StateDiff {
	diff := &StateDiff{Generation: newState.Generation}

	var oldSession *Session
	if oldState != nil {
		oldSession = oldState.Session
	}
	newSession := newState.Session

	// 1. Session identity
	sameSession := oldSession != nil && newSession != nil && oldSession.ID == newSession.ID
	if !sameSession && (oldSession != nil || newSession != nil) {
		id := ""
		if newSession != nil {
			id = newSession.ID
			diff.Topic = &newSession.Topic
		}
		diff.SessionID = &id
	}

	// 2. Request state
	if oldState == nil || oldState.Request != newState.Request {
		r := newState.Request
		diff.Request = &r
	}

	// 3. Menu and history only exist with a session
	if newSession != nil {
		if !sameSession || !slices.Equal(oldSession.Menu, newSession.Menu) {
			diff.Menu = slices.Clone(newSession.Menu)
		}
		diff.History = diffHistory(oldSession, newSession, sameSession)
	}

	if diff.IsEmpty() && oldState != nil && oldState.Generation == newState.Generation {
		return nil
	}
	return diff
}

// diffHistory relies on history being append-only within one session.
func diffHistory(old, new *Session, sameSession bool) *HistoryDelta {
	if !sameSession || !slices.Equal(old.History, new.History[:min(len(old.History), len(new.History))]) {
		return &HistoryDelta{Appended: slices.Clone(new.History), Replace: true}
	}
	if len(new.History) > len(old.History) {
		return &HistoryDelta{Appended: slices.Clone(new.History[len(old.History):])}
	}
	return nil
}

// IsEmpty reports whether the diff carries no field changes. A generation bump alone
// (a reset with no session) is still emitted by Diff so clients can order updates.
func (d *StateDiff) IsEmpty() bool {
	return d.SessionID == nil &&
		d.Topic == nil &&
		d.Menu == nil &&
		d.Request == nil &&
		d.History == nil
}
