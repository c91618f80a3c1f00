package mock_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/adapters/mock"
	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_PhysicsWalk(t *testing.T) {
	ctx := context.Background()
	svc := mock.New(mock.WithDelay(0))

	res, err := svc.StartSession(ctx, "Physics")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.SessionID, "mock-session-"))
	assert.Equal(t, []string{
		"History of Physics",
		"Key Concepts in Physics",
		"Applications of Physics",
		"Future of Physics",
	}, res.Menu)

	menu, err := svc.SelectItem(ctx, res.SessionID, "History of Physics")
	require.NoError(t, err)
	assert.Equal(t, []string{"Early History", "Mid-20th Century", "Recent Developments"}, menu)

	menu, err = svc.SelectItem(ctx, res.SessionID, "Future of Physics")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sub-item for Future of Physics 1", "Sub-item 2", "Sub-item 3"}, menu)

	starts, selects := svc.Calls()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 2, selects)
}

func TestService_UniqueIDs(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := mock.New(mock.WithDelay(0), mock.WithClock(clock))

	a, err := svc.StartSession(context.Background(), "A")
	require.NoError(t, err)
	b, err := svc.StartSession(context.Background(), "B")
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestService_Delay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := mock.New(mock.WithClock(clock))

	done := make(chan error, 1)
	go func() {
		_, err := svc.StartSession(context.Background(), "Physics")
		done <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	select {
	case <-done:
		t.Fatal("answered before the delay elapsed")
	default:
	}

	clock.Advance(mock.DefaultDelay)
	assert.NoError(t, <-done)
}

func TestService_ContextCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	svc := mock.New(mock.WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.StartSession(ctx, "Physics")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_FailureInjection(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("Start", func(t *testing.T) {
		svc := mock.New(mock.WithDelay(0), mock.WithStartError(boom))
		_, err := svc.StartSession(ctx, "Physics")
		assert.ErrorIs(t, err, boom)

		svc.FailStart(nil)
		_, err = svc.StartSession(ctx, "Physics")
		assert.NoError(t, err)
	})

	t.Run("Select", func(t *testing.T) {
		svc := mock.New(mock.WithDelay(0))
		res, err := svc.StartSession(ctx, "Physics")
		require.NoError(t, err)

		svc.FailSelect(mock.ErrInjected)
		_, err = svc.SelectItem(ctx, res.SessionID, "History of Physics")
		assert.ErrorIs(t, err, mock.ErrInjected)
	})

	t.Run("Unknown Session", func(t *testing.T) {
		svc := mock.New(mock.WithDelay(0))
		_, err := svc.SelectItem(ctx, "nope", "x")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
