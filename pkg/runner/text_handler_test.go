package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Render(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf)

	require.NoError(t, handler.Render(context.Background(), sessionState()))
	assert.Contains(t, outBuf.String(), "Path: Topic: Physics → Selected: History of Physics\n")

	// With a renderer the Markdown view is used.
	outBuf.Reset()
	handler.Renderer = func(s string) (string, error) {
		return "Rendered: " + s, nil
	}
	require.NoError(t, handler.Render(context.Background(), domain.NewState()))
	assert.Equal(t, "Rendered: "+TopicPrompt+"\n", outBuf.String())
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf)

	// Feed input asynchronously to simulate bridge
	go func() {
		handler.FeedInput("  my topic \n", nil)
	}()

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my topic", val)
	assert.Equal(t, "> ", outBuf.String())
}

func TestTextHandler_InputSanitized(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf, WithReader(strings.NewReader("Ph\x1bysics\n")))

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Physics", val)

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputRejectsOversized(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "4")
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf, WithReader(strings.NewReader("too long\nok\n")))

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, outBuf.String(), "Please try again")
}

func TestTextHandler_InputCancelled(t *testing.T) {
	handler := NewTextHandler(&bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
