package runner

import (
	"context"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Render presents the current state.
	Render(ctx context.Context, state domain.State) error

	// Input reads the next command. It returns ctx.Err() when ctx is done first
	// and io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. a rejected command).
	// This is distinct from state rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
