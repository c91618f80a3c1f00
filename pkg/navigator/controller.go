package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
)

// Controller is the navigation session controller.
// It owns exactly one domain.State; all mutations go through the pure transitions in
// machine.go. Safe for concurrent use.
type Controller struct {
	service ports.TopicService
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	timeout time.Duration

	mu     sync.Mutex
	state  domain.State
	cancel context.CancelFunc // cancels the request issued for the current generation
	subs   map[chan domain.State]struct{}
	closed bool

	wg sync.WaitGroup
}

// New creates a controller in the initial state [NoSession, Idle].
func New(service ports.TopicService, opts ...Option) *Controller {
	c := &Controller{
		service: service,
		logger:  logging.NewNop(),
		state:   domain.NewState(),
		subs:    make(map[chan domain.State]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request is a handle on an issued topic service call.
type Request struct {
	Ticket

	done chan struct{}
	err  error
}

func newRequest(t Ticket) *Request {
	return &Request{Ticket: t, done: make(chan struct{})}
}

// Done is closed once the response has been applied or discarded.
func (r *Request) Done() <-chan struct{} { return r.done }

// Err returns the outcome after Done is closed: nil when the response was applied
// successfully, the typed failure when a failure was applied, domain.ErrSuperseded when
// the response was discarded.
func (r *Request) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Wait blocks until the request completes or ctx is done.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Request) finish(err error) {
	r.err = err
	close(r.done)
}

// State returns a snapshot of the current state.
func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// StartSession discards the current session (if any) and asks the topic service for a new one.
// It returns immediately; the returned Request completes when the response is handled.
// Cancelling ctx does not abort the request.
func (c *Controller) StartSession(ctx context.Context, topic string) (*Request, error) {
	c.mu.Lock()
	next, ticket, err := Start(c.state, topic)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.cancelInFlight()
	c.state = next
	reqCtx, cancel := c.requestContext(ctx)
	c.publishLocked()
	c.mu.Unlock()

	req := newRequest(ticket)
	c.dispatch(reqCtx, cancel, req)
	return req, nil
}

// SelectItem asks the topic service for the submenu of item in the active session.
// Without an active session it returns domain.ErrNoActiveSession and issues nothing.
func (c *Controller) SelectItem(ctx context.Context, item string) (*Request, error) {
	c.mu.Lock()
	next, ticket, err := Select(c.state, item)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.state = next
	reqCtx, cancel := c.requestContext(ctx)
	c.publishLocked()
	c.mu.Unlock()

	req := newRequest(ticket)
	c.dispatch(reqCtx, cancel, req)
	return req, nil
}

// Reset drops the session and returns to [NoSession, Idle]. Always succeeds.
func (c *Controller) Reset() {
	c.mu.Lock()
	sessionID := c.state.SessionID()
	c.cancelInFlight()
	c.state = Reset(c.state)
	gen := c.state.Generation
	c.publishLocked()
	c.mu.Unlock()

	c.logger.Debug("Session reset", "session_id", sessionID, "generation", gen)
	if c.hooks.OnReset != nil {
		c.hooks.OnReset(context.Background(), &domain.ResetEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSessionReset, Generation: gen},
			SessionID: sessionID,
		})
	}
}

// Subscribe returns a channel receiving a snapshot after every transition.
// Slow subscribers only miss intermediate snapshots; the latest one is always delivered.
func (c *Controller) Subscribe() (<-chan domain.State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan domain.State, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[ch] = struct{}{}

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
	}
}

// Close cancels the in-flight request, waits for outstanding goroutines and closes
// all subscriptions. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelInFlight()
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subs {
		close(ch)
	}
	c.subs = nil
	c.closed = true
}

// cancelInFlight must be called with c.mu held.
func (c *Controller) cancelInFlight() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// requestContext must be called with c.mu held.
func (c *Controller) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	base := context.WithoutCancel(parent)

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(base, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(base)
	}
	c.cancel = cancel
	return ctx, cancel
}

// publishLocked must be called with c.mu held.
func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.state.Snapshot()
	for ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale snapshot the subscriber has not read yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, cancel context.CancelFunc, req *Request) {
	c.emit(ctx, c.hooks.OnRequestIssued, c.event(domain.EventRequestIssued, req.Ticket, 0, nil))
	c.logger.Debug("Request issued",
		"kind", req.Kind,
		"generation", req.Generation,
		"session_id", req.SessionID,
		"topic", req.Topic,
		"item", req.Item,
	)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		start := time.Now()
		var outcome error
		switch req.Kind {
		case domain.RequestStart:
			res, err := c.callStart(ctx, req.Topic)
			outcome = c.resolve(func(s domain.State) (domain.State, error) {
				return ResolveStart(s, req.Ticket, res, err)
			})
		case domain.RequestSelect:
			menu, err := c.callSelect(ctx, req.SessionID, req.Item)
			outcome = c.resolve(func(s domain.State) (domain.State, error) {
				return ResolveSelect(s, req.Ticket, menu, err)
			})
		default:
			outcome = fmt.Errorf("unknown request kind %q", req.Kind)
		}

		c.report(ctx, req.Ticket, time.Since(start), outcome)
		req.finish(outcome)
	}()
}

func (c *Controller) resolve(fn func(domain.State) (domain.State, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, outcome := fn(c.state)
	if errors.Is(outcome, domain.ErrSuperseded) {
		return outcome
	}
	c.state = next
	c.cancel = nil
	c.publishLocked()
	return outcome
}

func (c *Controller) report(ctx context.Context, t Ticket, d time.Duration, outcome error) {
	switch {
	case outcome == nil:
		c.logger.Debug("Request applied", "kind", t.Kind, "generation", t.Generation, "duration", d)
		c.emit(ctx, c.hooks.OnRequestApplied, c.event(domain.EventRequestApplied, t, d, nil))
	case errors.Is(outcome, domain.ErrSuperseded):
		c.logger.Debug("Discarding stale response", "kind", t.Kind, "generation", t.Generation)
		c.emit(ctx, c.hooks.OnResponseDiscarded, c.event(domain.EventResponseDiscarded, t, d, outcome))
	default:
		c.logger.Warn("Topic service request failed", "kind", t.Kind, "generation", t.Generation, "err", outcome)
		c.emit(ctx, c.hooks.OnRequestFailed, c.event(domain.EventRequestFailed, t, d, outcome))
	}
}

func (c *Controller) event(typ domain.EventType, t Ticket, d time.Duration, err error) *domain.RequestEvent {
	return &domain.RequestEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ, Generation: t.Generation},
		Kind:      t.Kind,
		SessionID: t.SessionID,
		Topic:     t.Topic,
		Item:      t.Item,
		Duration:  d,
		Err:       err,
	}
}

func (c *Controller) emit(ctx context.Context, hook func(context.Context, *domain.RequestEvent), e *domain.RequestEvent) {
	if hook != nil {
		hook(ctx, e)
	}
}

// callStart converts a panicking topic service into an ordinary failure.
func (c *Controller) callStart(ctx context.Context, topic string) (res domain.StartResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("topic service panicked: %v", r)
		}
	}()
	return c.service.StartSession(ctx, topic)
}

func (c *Controller) callSelect(ctx context.Context, sessionID, item string) (menu []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("topic service panicked: %v", r)
		}
	}()
	return c.service.SelectItem(ctx, sessionID, item)
}
