package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// PathSeparator joins breadcrumbs in the rendered path.
const PathSeparator = " → "

// TopicPrompt is shown while no session is active.
const TopicPrompt = "Enter a topic to explore (e.g., Artificial Intelligence)."

// View is the presentation model of a domain.State.
// It is what clients (text, JSON, MCP) show to a user.
type View struct {
	SessionID  string   `json:"session_id,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	Path       []string `json:"path,omitempty"`
	Menu       []string `json:"menu,omitempty"`
	Loading    bool     `json:"loading"`
	Error      string   `json:"error,omitempty"`
	Generation uint64   `json:"generation"`
}

// NewView builds the view of a state.
func NewView(s domain.State) View {
	v := View{
		Loading:    s.Request.IsLoading(),
		Generation: s.Generation,
	}
	if s.Request.IsError() {
		v.Error = s.Request.Message
	}
	if s.Session != nil {
		s = s.Snapshot()
		v.SessionID = s.Session.ID
		v.Topic = s.Session.Topic
		v.Path = s.Session.History
		v.Menu = s.Session.Menu
	}
	return v
}

// Active reports whether the view shows a session.
func (v View) Active() bool { return v.SessionID != "" }

// Breadcrumb renders the path, e.g. "Topic: Physics → Selected: History of Physics".
func (v View) Breadcrumb() string {
	return strings.Join(v.Path, PathSeparator)
}

// Resolve maps a command to a menu label. It accepts a 1-based index or a
// label (case-insensitive).
func (v View) Resolve(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(v.Menu) {
			return v.Menu[n-1], true
		}
		return "", false
	}
	for _, item := range v.Menu {
		if strings.EqualFold(item, input) {
			return item, true
		}
	}
	return "", false
}

// Markdown renders the view as a Markdown document.
func (v View) Markdown() string {
	var b strings.Builder

	if v.Loading {
		b.WriteString("Loading...\n")
		return b.String()
	}
	if v.Error != "" {
		fmt.Fprintf(&b, "**Error:** %s\n\n", v.Error)
	}
	if !v.Active() {
		b.WriteString(TopicPrompt + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "*Path: %s*\n\n", v.Breadcrumb())
	b.WriteString("### Select an option:\n\n")
	for i, item := range v.Menu {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return b.String()
}

// Text renders the view as plain text.
func (v View) Text() string {
	var b strings.Builder

	if v.Loading {
		b.WriteString("Loading...\n")
		return b.String()
	}
	if v.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", v.Error)
	}
	if !v.Active() {
		b.WriteString(TopicPrompt + "\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Path: %s\n", v.Breadcrumb())
	b.WriteString("Select an option:\n")
	for i, item := range v.Menu {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, item)
	}
	return b.String()
}
