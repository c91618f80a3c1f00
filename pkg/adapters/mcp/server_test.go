package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ewallt/ai-subject-explorer/pkg/adapters/mock"
	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/navigator"
	"github.com/ewallt/ai-subject-explorer/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, *mock.Service) {
	t.Helper()
	svc := mock.New(mock.WithDelay(0))
	ctrl := navigator.New(svc)
	t.Cleanup(ctrl.Close)
	return NewServer(ctrl), svc
}

func TestServer_ExploreAndSelect(t *testing.T) {
	s, _ := newServer(t)
	ctx := context.Background()

	view, err := s.handleExplore(ctx, mcp.CallToolRequest{}, map[string]any{"topic": "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Physics", view.Topic)
	assert.False(t, view.Loading)
	assert.Equal(t, []string{
		"History of Physics",
		"Key Concepts in Physics",
		"Applications of Physics",
		"Future of Physics",
	}, view.Menu)

	// JSON numbers arrive as float64.
	view, err = s.handleSelect(ctx, mcp.CallToolRequest{}, map[string]any{"item": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Core Idea A", "Core Idea B", "Related Theories"}, view.Menu)

	view, err = s.handleSelect(ctx, mcp.CallToolRequest{}, map[string]any{"item": "related theories"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Topic: Physics",
		"Selected: Key Concepts in Physics",
		"Selected: Related Theories",
	}, view.Path)
}

func TestServer_SelectErrors(t *testing.T) {
	s, svc := newServer(t)
	ctx := context.Background()

	_, err := s.handleSelect(ctx, mcp.CallToolRequest{}, map[string]any{"item": "1"})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
	starts, selects := svc.Calls()
	assert.Zero(t, starts)
	assert.Zero(t, selects)

	_, err = s.handleExplore(ctx, mcp.CallToolRequest{}, map[string]any{"topic": "Physics"})
	require.NoError(t, err)

	_, err = s.handleSelect(ctx, mcp.CallToolRequest{}, map[string]any{"item": "9"})
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, err = s.handleSelect(ctx, mcp.CallToolRequest{}, map[string]any{"item": "1", "extra": true})
	assert.Error(t, err)

	svc.FailSelect(errors.New("backend down"))
	view, err := s.handleSelect(ctx, mcp.CallToolRequest{}, map[string]any{"item": "1"})
	require.NoError(t, err, "service failures are reported in the view")
	assert.Equal(t, domain.MsgSelectFailed, view.Error)
	assert.Len(t, view.Menu, 4)
}

func TestServer_ExploreRejectsEmptyTopic(t *testing.T) {
	s, _ := newServer(t)
	_, err := s.handleExplore(context.Background(), mcp.CallToolRequest{}, map[string]any{"topic": "  "})
	assert.ErrorIs(t, err, domain.ErrEmptyTopic)
}

func TestServer_ResetAndState(t *testing.T) {
	s, _ := newServer(t)
	ctx := context.Background()

	_, err := s.handleExplore(ctx, mcp.CallToolRequest{}, map[string]any{"topic": "Physics"})
	require.NoError(t, err)

	view, err := s.handleGetState(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, view.Active())

	view, err = s.handleReset(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.False(t, view.Active())
	assert.Empty(t, view.Menu)
	assert.Equal(t, uint64(2), view.Generation)
}

func TestServer_StateResource(t *testing.T) {
	s, _ := newServer(t)
	ctx := context.Background()

	_, err := s.handleExplore(ctx, mcp.CallToolRequest{}, map[string]any{"topic": "Physics"})
	require.NoError(t, err)

	msg := s.MCPServer().HandleMessage(ctx, json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"explorer://state"}}`))
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Contents []struct {
				URI  string `json:"uri"`
				Text string `json:"text"`
			} `json:"contents"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &resp), string(data))
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, StateURI, resp.Result.Contents[0].URI)

	var view runner.View
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Contents[0].Text), &view))
	assert.Equal(t, "Physics", view.Topic)
}
