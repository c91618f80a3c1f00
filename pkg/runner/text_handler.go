package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	source   io.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithStdin reads commands from os.Stdin.
func WithStdin() TextHandlerOption {
	return WithReader(os.Stdin)
}

// WithReader reads commands from r, one per line.
func WithReader(r io.Reader) TextHandlerOption {
	return func(h *TextHandler) {
		h.source = r
	}
}

// WithTextHandlerRenderer configures the content renderer.
// With a renderer the view is produced as Markdown and passed through it.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
// Without a reader option, input must be supplied with FeedInput.
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Writer:    w,
		inputChan: make(chan inputResult),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// FeedInput pushes one line of input, as if it was typed.
// It blocks until Input consumes it.
func (h *TextHandler) FeedInput(text string, err error) {
	h.inputChan <- inputResult{text: text, err: err}
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		if h.source != nil {
			go h.pump(bufio.NewReader(h.source))
		}
	})
}

func (h *TextHandler) pump(reader *bufio.Reader) {
	for {
		text, err := reader.ReadString('\n')

		// If we got text (even with EOF), send it
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Render prints the view of state.
func (h *TextHandler) Render(ctx context.Context, state domain.State) error {
	view := NewView(state)

	output := view.Text()
	if h.Renderer != nil {
		if rendered, err := h.Renderer(view.Markdown()); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(output, "\n"))
	return err
}

// Input prompts and reads one sanitized line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		// Only show prompt if context is not yet done
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message with a "[System]" prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
