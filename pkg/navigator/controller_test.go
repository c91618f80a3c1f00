package navigator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/adapters/mock"
	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/navigator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

type reply struct {
	res  domain.StartResult
	menu []string
	err  error
}

type call struct {
	kind      domain.RequestKind
	ctx       context.Context
	topic     string
	sessionID string
	item      string
	reply     chan reply
}

// gatedService blocks every call until the test answers it.
type gatedService struct {
	calls chan *call
	// ignoreCtx makes calls wait for a reply even after their context is done,
	// like a server that answers late.
	ignoreCtx bool
}

func newGated() *gatedService {
	return &gatedService{calls: make(chan *call, 8)}
}

func (g *gatedService) do(c *call) reply {
	c.reply = make(chan reply, 1)
	g.calls <- c
	if g.ignoreCtx {
		return <-c.reply
	}
	select {
	case r := <-c.reply:
		return r
	case <-c.ctx.Done():
		return reply{err: c.ctx.Err()}
	}
}

func (g *gatedService) StartSession(ctx context.Context, topic string) (domain.StartResult, error) {
	r := g.do(&call{kind: domain.RequestStart, ctx: ctx, topic: topic})
	return r.res, r.err
}

func (g *gatedService) SelectItem(ctx context.Context, sessionID, item string) ([]string, error) {
	r := g.do(&call{kind: domain.RequestSelect, ctx: ctx, sessionID: sessionID, item: item})
	return r.menu, r.err
}

func (g *gatedService) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a topic service call")
		return nil
	}
}

func (g *gatedService) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected %s call", c.kind)
	default:
	}
}

func wait(t *testing.T, req *navigator.Request) error {
	t.Helper()
	select {
	case <-req.Done():
		return req.Err()
	case <-time.After(waitTimeout):
		t.Fatal("request did not complete")
		return nil
	}
}

// startSession drives the controller to an idle Physics session with ID "sess-1".
func startSession(t *testing.T, c *navigator.Controller, g *gatedService) {
	t.Helper()
	req, err := c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	g.next(t).reply <- reply{res: domain.StartResult{SessionID: "sess-1", Menu: []string{"History of Physics", "Future of Physics"}}}
	require.NoError(t, wait(t, req))
}

func TestController_PhysicsScenario(t *testing.T) {
	c := navigator.New(mock.New(mock.WithDelay(0)))
	defer c.Close()
	ctx := context.Background()

	req, err := c.StartSession(ctx, "Physics")
	require.NoError(t, err)
	require.NoError(t, wait(t, req))

	s := c.State()
	require.NotNil(t, s.Session)
	assert.True(t, s.Request.IsIdle())
	assert.Equal(t, "Physics", s.Session.Topic)
	assert.Equal(t, []string{"Topic: Physics"}, s.Session.History)
	assert.Len(t, s.Session.Menu, 4)

	req, err = c.SelectItem(ctx, "History of Physics")
	require.NoError(t, err)
	require.NoError(t, wait(t, req))

	s = c.State()
	assert.Equal(t, []string{"Early History", "Mid-20th Century", "Recent Developments"}, s.Session.Menu)
	assert.Equal(t, []string{"Topic: Physics", "Selected: History of Physics"}, s.Session.History)

	c.Reset()
	s = c.State()
	assert.Nil(t, s.Session)
	assert.True(t, s.Request.IsIdle())
}

func TestController_SelectWithoutSession(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()

	before := c.State()
	req, err := c.SelectItem(context.Background(), "anything")
	assert.Nil(t, req)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	assert.Equal(t, before, c.State())
	g.assertNoCall(t)
}

func TestController_EmptyTopic(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()

	_, err := c.StartSession(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyTopic)
	g.assertNoCall(t)
}

func TestController_SelectCarriesSessionID(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()
	startSession(t, c, g)

	req, err := c.SelectItem(context.Background(), "Future of Physics")
	require.NoError(t, err)

	call := g.next(t)
	assert.Equal(t, "sess-1", call.sessionID)
	assert.Equal(t, "Future of Physics", call.item)
	call.reply <- reply{menu: []string{"A", "B"}}
	require.NoError(t, wait(t, req))

	assert.Equal(t, "sess-1", c.State().SessionID())
}

func TestController_FailedSelectKeepsSession(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()
	startSession(t, c, g)
	before := c.State().Session

	req, err := c.SelectItem(context.Background(), "History of Physics")
	require.NoError(t, err)
	g.next(t).reply <- reply{err: errors.New("503")}

	err = wait(t, req)
	var selErr *domain.SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "sess-1", selErr.SessionID)

	s := c.State()
	assert.Equal(t, before, s.Session)
	assert.True(t, s.Request.IsError())
	assert.Equal(t, domain.MsgSelectFailed, s.Request.Message)

	// A retry from the error state is allowed.
	req, err = c.SelectItem(context.Background(), "History of Physics")
	require.NoError(t, err)
	g.next(t).reply <- reply{menu: []string{"Early History"}}
	require.NoError(t, wait(t, req))
	assert.Equal(t, []string{"Early History"}, c.State().Session.Menu)
}

func TestController_FailedStart(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()

	req, err := c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	g.next(t).reply <- reply{err: errors.New("connection refused")}

	var startErr *domain.SessionStartError
	require.ErrorAs(t, wait(t, req), &startErr)
	assert.Equal(t, "Physics", startErr.Topic)

	s := c.State()
	assert.Nil(t, s.Session)
	assert.True(t, s.Request.IsError())
	assert.Equal(t, domain.MsgStartFailed, s.Request.Message)

	startSession(t, c, g)
	assert.True(t, c.State().Request.IsIdle())
}

func TestController_SelectWhileLoading(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()
	startSession(t, c, g)

	_, err := c.SelectItem(context.Background(), "History of Physics")
	require.NoError(t, err)
	pending := g.next(t)

	_, err = c.SelectItem(context.Background(), "Future of Physics")
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)
	g.assertNoCall(t)

	pending.reply <- reply{menu: []string{"x"}}
}

func TestController_StaleStartIsDiscarded(t *testing.T) {
	g := newGated()
	g.ignoreCtx = true
	c := navigator.New(g)
	defer c.Close()
	ctx := context.Background()

	reqA, err := c.StartSession(ctx, "Art")
	require.NoError(t, err)
	callA := g.next(t)

	reqB, err := c.StartSession(ctx, "Biology")
	require.NoError(t, err)
	callB := g.next(t)

	callB.reply <- reply{res: domain.StartResult{SessionID: "B", Menu: []string{"b"}}}
	require.NoError(t, wait(t, reqB))

	callA.reply <- reply{res: domain.StartResult{SessionID: "A", Menu: []string{"a"}}}
	assert.ErrorIs(t, wait(t, reqA), domain.ErrSuperseded)

	s := c.State()
	assert.Equal(t, "B", s.SessionID())
	assert.Equal(t, "Biology", s.Session.Topic)
	assert.True(t, s.Request.IsIdle())
}

func TestController_SupersededRequestIsCancelled(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()

	reqA, err := c.StartSession(context.Background(), "Art")
	require.NoError(t, err)
	callA := g.next(t)

	_, err = c.StartSession(context.Background(), "Biology")
	require.NoError(t, err)

	select {
	case <-callA.ctx.Done():
	case <-time.After(waitTimeout):
		t.Fatal("superseded request context was not cancelled")
	}
	assert.ErrorIs(t, wait(t, reqA), domain.ErrSuperseded)
	assert.True(t, c.State().Request.IsLoading(), "the newer request is still pending")

	g.next(t).reply <- reply{res: domain.StartResult{SessionID: "B", Menu: []string{"b"}}}
}

func TestController_ResetDiscardsInFlight(t *testing.T) {
	g := newGated()
	g.ignoreCtx = true
	c := navigator.New(g)
	defer c.Close()
	startSession(t, c, g)

	req, err := c.SelectItem(context.Background(), "History of Physics")
	require.NoError(t, err)
	call := g.next(t)

	c.Reset()
	call.reply <- reply{menu: []string{"late"}}
	assert.ErrorIs(t, wait(t, req), domain.ErrSuperseded)

	s := c.State()
	assert.Nil(t, s.Session)
	assert.True(t, s.Request.IsIdle())
}

func TestController_CallerCancellationDoesNotAbort(t *testing.T) {
	g := newGated()
	c := navigator.New(g)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := c.StartSession(ctx, "Physics")
	require.NoError(t, err)
	call := g.next(t)

	cancel()
	assert.NoError(t, call.ctx.Err())

	call.reply <- reply{res: domain.StartResult{SessionID: "sess-1", Menu: []string{"a"}}}
	require.NoError(t, wait(t, req))
	assert.Equal(t, "sess-1", c.State().SessionID())
}

func TestController_RequestTimeout(t *testing.T) {
	g := newGated()
	c := navigator.New(g, navigator.WithRequestTimeout(20*time.Millisecond))
	defer c.Close()

	req, err := c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	g.next(t) // never answered

	err = wait(t, req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, c.State().Request.IsError())
}

type funcService struct {
	start    func(ctx context.Context, topic string) (domain.StartResult, error)
	selectFn func(ctx context.Context, sessionID, item string) ([]string, error)
}

func (f funcService) StartSession(ctx context.Context, topic string) (domain.StartResult, error) {
	return f.start(ctx, topic)
}

func (f funcService) SelectItem(ctx context.Context, sessionID, item string) ([]string, error) {
	return f.selectFn(ctx, sessionID, item)
}

func TestController_ServicePanicIsAFailure(t *testing.T) {
	svc := funcService{
		start: func(context.Context, string) (domain.StartResult, error) { panic("boom") },
	}
	c := navigator.New(svc)
	defer c.Close()

	req, err := c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	assert.ErrorContains(t, wait(t, req), "panicked")
	assert.True(t, c.State().Request.IsError())
}

func TestController_EmptyMenuIsAFailure(t *testing.T) {
	svc := funcService{
		start: func(context.Context, string) (domain.StartResult, error) {
			return domain.StartResult{SessionID: "s"}, nil
		},
	}
	c := navigator.New(svc)
	defer c.Close()

	req, err := c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	assert.ErrorIs(t, wait(t, req), domain.ErrEmptyMenu)
	assert.Nil(t, c.State().Session)
}

func TestController_Subscribe(t *testing.T) {
	c := navigator.New(mock.New(mock.WithDelay(0)))
	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	req, err := c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	require.NoError(t, wait(t, req))

	deadline := time.After(waitTimeout)
	for {
		select {
		case s := <-updates:
			if s.Session != nil && s.Request.IsIdle() {
				assert.Equal(t, "Physics", s.Session.Topic)
				c.Close()
				_, open := <-updates
				assert.False(t, open, "Close must end subscriptions")
				return
			}
		case <-deadline:
			t.Fatal("never observed the applied session")
		}
	}
}

func TestController_LifecycleHooks(t *testing.T) {
	var (
		mu     sync.Mutex
		events []domain.EventType
	)
	record := func(_ context.Context, e *domain.RequestEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.Type)
	}

	g := newGated()
	g.ignoreCtx = true
	c := navigator.New(g, navigator.WithLifecycleHooks(domain.LifecycleHooks{
		OnRequestIssued:     record,
		OnRequestApplied:    record,
		OnRequestFailed:     record,
		OnResponseDiscarded: record,
		OnReset: func(_ context.Context, e *domain.ResetEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e.Type)
		},
	}))
	defer c.Close()

	startSession(t, c, g)

	req, err := c.SelectItem(context.Background(), "x")
	require.NoError(t, err)
	call := g.next(t)
	c.Reset()
	call.reply <- reply{menu: []string{"late"}}
	_ = wait(t, req)

	req, err = c.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	g.next(t).reply <- reply{err: errors.New("down")}
	_ = wait(t, req)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.EventType{
		domain.EventRequestIssued,
		domain.EventRequestApplied,
		domain.EventRequestIssued,
		domain.EventSessionReset,
		domain.EventResponseDiscarded,
		domain.EventRequestIssued,
		domain.EventRequestFailed,
	}, events)
}
