package navigator

import (
	"strings"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// Ticket describes a topic service request and the generation it belongs to.
type Ticket struct {
	Kind       domain.RequestKind
	Generation uint64
	SessionID  string
	Topic      string
	Item       string
}

// Start discards any current session and moves to [NoSession, Loading] under a new generation.
// A blank topic is rejected and the state is returned unchanged.
func Start(s domain.State, topic string) (domain.State, Ticket, error) {
	if strings.TrimSpace(topic) == "" {
		return s, Ticket{}, domain.ErrEmptyTopic
	}

	next := domain.State{
		Request:    domain.Loading(),
		Generation: s.Generation + 1,
	}
	return next, Ticket{
		Kind:       domain.RequestStart,
		Generation: next.Generation,
		Topic:      topic,
	}, nil
}

// Select moves an active session to Loading. It is allowed from Idle and from Error (retry).
func Select(s domain.State, item string) (domain.State, Ticket, error) {
	if !s.Active() {
		return s, Ticket{}, domain.ErrNoActiveSession
	}
	if s.Request.IsLoading() {
		return s, Ticket{}, domain.ErrRequestInFlight
	}

	// Sessions are never mutated in place, so sharing the pointer is safe.
	next := s
	next.Request = domain.Loading()
	return next, Ticket{
		Kind:       domain.RequestSelect,
		Generation: s.Generation,
		SessionID:  s.Session.ID,
		Topic:      s.Session.Topic,
		Item:       item,
	}, nil
}

// Reset returns the initial state under a new generation.
func Reset(s domain.State) domain.State {
	return domain.State{
		Request:    domain.Idle(),
		Generation: s.Generation + 1,
	}
}

// Current reports whether a response for t may still be applied to s.
func Current(s domain.State, t Ticket) bool {
	if t.Generation != s.Generation || !s.Request.IsLoading() {
		return false
	}
	if t.Kind == domain.RequestSelect {
		return s.SessionID() == t.SessionID
	}
	return !s.Active()
}

// ResolveStart applies the outcome of a StartSession call.
// It returns domain.ErrSuperseded (and s unchanged) when t is stale, a *domain.SessionStartError
// when the call failed, and nil when the new session was installed.
func ResolveStart(s domain.State, t Ticket, res domain.StartResult, err error) (domain.State, error) {
	if !Current(s, t) {
		return s, domain.ErrSuperseded
	}

	if err == nil {
		switch {
		case res.SessionID == "":
			err = domain.ErrMissingSessionID
		case len(res.Menu) == 0:
			err = domain.ErrEmptyMenu
		}
	}
	if err != nil {
		return domain.State{
			Request:    domain.Failed(domain.MsgStartFailed),
			Generation: s.Generation,
		}, &domain.SessionStartError{Topic: t.Topic, Err: err}
	}

	return domain.State{
		Session:    domain.NewSession(res.SessionID, t.Topic, res.Menu),
		Request:    domain.Idle(),
		Generation: s.Generation,
	}, nil
}

// ResolveSelect applies the outcome of a SelectItem call.
// On failure the session is kept exactly as it was before the call.
func ResolveSelect(s domain.State, t Ticket, submenu []string, err error) (domain.State, error) {
	if !Current(s, t) {
		return s, domain.ErrSuperseded
	}

	if err == nil && len(submenu) == 0 {
		err = domain.ErrEmptyMenu
	}

	next := s
	if err != nil {
		next.Request = domain.Failed(domain.MsgSelectFailed)
		return next, &domain.SelectionError{SessionID: t.SessionID, Item: t.Item, Err: err}
	}

	next.Session = s.Session.Advance(t.Item, submenu)
	next.Request = domain.Idle()
	return next, nil
}
