package domain

import (
	"context"
	"time"
)

// RequestKind identifies the topic service operation behind a request.
type RequestKind string

const (
	RequestStart  RequestKind = "start_session"
	RequestSelect RequestKind = "select_item"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRequestIssued     EventType = "request_issued"
	EventRequestApplied    EventType = "request_applied"
	EventRequestFailed     EventType = "request_failed"
	EventResponseDiscarded EventType = "response_discarded"
	EventSessionReset      EventType = "session_reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp  time.Time `json:"timestamp"`
	Type       EventType `json:"type"`
	Generation uint64    `json:"generation"`
}

// RequestEvent describes one topic service round-trip.
type RequestEvent struct {
	EventBase
	Kind      RequestKind   `json:"kind"`
	SessionID string        `json:"session_id,omitempty"`
	Topic     string        `json:"topic,omitempty"`
	Item      string        `json:"item,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       error         `json:"-"`
}

// ResetEvent is emitted when a controller drops its session.
type ResetEvent struct {
	EventBase
	SessionID string `json:"session_id,omitempty"`
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnRequestIssued     func(context.Context, *RequestEvent)
	OnRequestApplied    func(context.Context, *RequestEvent)
	OnRequestFailed     func(context.Context, *RequestEvent)
	OnResponseDiscarded func(context.Context, *RequestEvent)
	OnReset             func(context.Context, *ResetEvent)
}
