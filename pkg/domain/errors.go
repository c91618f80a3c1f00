package domain

import (
	"errors"
	"fmt"
)

// ErrNoActiveSession is returned when a selection is attempted without a session.
var ErrNoActiveSession = errors.New("no active session")

// ErrEmptyTopic is returned when a session is started with a blank topic.
var ErrEmptyTopic = errors.New("topic must not be empty")

// ErrRequestInFlight is returned when a selection is attempted while another request is loading.
var ErrRequestInFlight = errors.New("a request is already in flight")

// ErrSuperseded is reported for a response that was discarded because a newer
// StartSession or a Reset changed the generation it was issued against.
var ErrSuperseded = errors.New("request superseded")

// ErrEmptyMenu is returned when the topic service answers with no selectable items.
var ErrEmptyMenu = errors.New("topic service returned an empty menu")

// ErrMissingSessionID is returned when a session ID is required but blank, including
// a StartSession response that carries no ID.
var ErrMissingSessionID = errors.New("missing session id")

// ErrEmptyItem is returned by topic services when a blank item is selected.
var ErrEmptyItem = errors.New("item must not be empty")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// SessionStartError reports a failed StartSession call to the topic service.
type SessionStartError struct {
	Topic string
	Err   error
}

func (e *SessionStartError) Error() string {
	return fmt.Sprintf("start session %q: %v", e.Topic, e.Err)
}

func (e *SessionStartError) Unwrap() error { return e.Err }

// SelectionError reports a failed SelectItem call to the topic service.
type SelectionError struct {
	SessionID string
	Item      string
	Err       error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("select %q in session %s: %v", e.Item, e.SessionID, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }
