package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/ewallt/ai-subject-explorer/pkg/runner"
	"golang.org/x/term"
)

// NewRenderer returns a renderer that turns Markdown into styled terminal output.
// If glamour cannot be initialised the Markdown is returned unchanged.
func NewRenderer() runner.ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
