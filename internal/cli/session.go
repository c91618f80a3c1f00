package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ewallt/ai-subject-explorer/internal/config"
	"github.com/ewallt/ai-subject-explorer/internal/logging"
	httpadapter "github.com/ewallt/ai-subject-explorer/pkg/adapters/http"
	"github.com/ewallt/ai-subject-explorer/pkg/runner"
)

// SessionsOptions selects where the session commands look for records.
// With URL set they talk to a running server; otherwise they open the configured store.
type SessionsOptions struct {
	Config *config.Config
	URL    string
	Out    io.Writer
}

func (o SessionsOptions) writer() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func openSessions(ctx context.Context, opts SessionsOptions) (httpadapter.Backend, func() error, error) {
	if opts.URL != "" {
		return httpadapter.NewClient(opts.URL), func() error { return nil }, nil
	}
	backend, err := NewBackend(ctx, opts.Config, logging.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return backend.Service, backend.Close, nil
}

// ListSessions prints the ID of every stored session.
func ListSessions(ctx context.Context, opts SessionsOptions) error {
	backend, closeFn, err := openSessions(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	ids, err := backend.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	w := opts.writer()
	if len(ids) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

// InspectSession prints the record of a session as JSON followed by its path.
func InspectSession(ctx context.Context, opts SessionsOptions, sessionID string) error {
	backend, closeFn, err := openSessions(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	exp, err := backend.Lookup(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}

	w := opts.writer()
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	fmt.Fprintf(w, "Path: %s\n", strings.Join(append([]string{exp.Topic}, exp.Path...), runner.PathSeparator))
	return nil
}

// RemoveSession deletes a session record.
func RemoveSession(ctx context.Context, opts SessionsOptions, sessionID string) error {
	backend, closeFn, err := openSessions(ctx, opts)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := backend.End(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to remove session %q: %w", sessionID, err)
	}
	printSystemMessage(opts.writer(), "Session '%s' removed.", sessionID)
	return nil
}
