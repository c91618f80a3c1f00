package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// Event types emitted by JSONHandler.
const (
	EventDiff   = "diff"
	EventSystem = "system"
)

// Event is one NDJSON line written by JSONHandler.
type Event struct {
	Type    string            `json:"type"`
	Diff    *domain.StateDiff `json:"diff,omitempty"`
	Message string            `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Render emits only what changed since the previous Render.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	mu   sync.Mutex
	last *domain.State
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Render emits a diff event, or nothing when the state is unchanged.
func (h *JSONHandler) Render(ctx context.Context, state domain.State) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	diff := domain.Diff(h.last, state)
	snap := state.Snapshot()
	h.last = &snap
	if diff == nil {
		return nil
	}
	return h.Encoder.Encode(Event{Type: EventDiff, Diff: diff})
}

// Input reads a line holding either a JSON string or plain text.
// It does not observe ctx once the read has started.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	// Try to unquote if it's a JSON string
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

// SystemOutput emits a system event.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(Event{Type: EventSystem, Message: msg})
}
