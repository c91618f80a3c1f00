package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/ewallt/ai-subject-explorer/pkg/navigator"
)

// Commands understood by the loop in addition to topics and menu choices.
const (
	CommandReset = "reset"
	CommandExit  = "exit"
	CommandQuit  = "quit"
)

// Runner handles the interactive loop over a navigator.Controller using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Renderer is passed to the default TextHandler.
	Renderer ContentRenderer
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the loop until the user exits, the input ends or ctx is done.
// A non-blank topic starts a session before the first prompt.
func (r *Runner) Run(ctx context.Context, ctrl *navigator.Controller, topic string) error {
	handler := r.resolveHandler()

	signals := NewSignalManager(ctx)
	defer signals.Stop()

	if strings.TrimSpace(topic) != "" {
		if err := r.execute(signals, handler, ctrl, topic); err != nil {
			return err
		}
	}

	for {
		if err := handler.Render(ctx, ctrl.State()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		input, err := handler.Input(signals.Context())
		if err != nil {
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				_ = handler.SystemOutput(ctx, err.Error())
				continue
			}

			signals.CheckRace()
			if signals.Context().Err() != nil || errors.Is(err, io.EOF) {
				r.Logger.Debug("Runner input ended", "err", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case CommandExit, CommandQuit:
			return nil
		case CommandReset:
			ctrl.Reset()
			continue
		}

		if err := r.execute(signals, handler, ctrl, input); err != nil {
			return err
		}
	}
}

// execute issues the request for one command and waits for its outcome.
func (r *Runner) execute(signals *SignalManager, handler IOHandler, ctrl *navigator.Controller, input string) error {
	ctx := signals.Context()
	state := ctrl.State()

	var (
		req *navigator.Request
		err error
	)
	if !state.Active() {
		req, err = ctrl.StartSession(ctx, input)
	} else {
		item, ok := NewView(state).Resolve(input)
		if !ok {
			return handler.SystemOutput(ctx, fmt.Sprintf("No such option: %q. Type a number, a label, %q or %q.", input, CommandReset, CommandExit))
		}
		req, err = ctrl.SelectItem(ctx, item)
	}
	if err != nil {
		return handler.SystemOutput(ctx, err.Error())
	}

	if err := handler.Render(ctx, ctrl.State()); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	if err := req.Wait(ctx); err != nil {
		if signals.Interrupted() {
			// Abandon the pending request and return to the topic prompt.
			ctrl.Reset()
			signals.Reset()
			return handler.SystemOutput(context.Background(), "Request cancelled.")
		}
		if ctx.Err() != nil {
			// Parent context is done; the next Input ends the loop.
			return nil
		}
		r.Logger.Debug("Request failed", "kind", req.Kind, "generation", req.Generation, "err", err)
	}
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(os.Stdout, WithStdin(), WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}
