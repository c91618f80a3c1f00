package cli

import (
	"context"
	"io"
	"os"

	explorer "github.com/ewallt/ai-subject-explorer"
	"github.com/ewallt/ai-subject-explorer/internal/config"
	"github.com/ewallt/ai-subject-explorer/internal/presentation/tui"
	"github.com/ewallt/ai-subject-explorer/pkg/observability"
	"github.com/ewallt/ai-subject-explorer/pkg/runner"
)

// ExploreOptions contains all the configuration for the explore command.
type ExploreOptions struct {
	Config   *config.Config
	Topic    string // optional first topic
	Headless bool
	JSON     bool
	Debug    bool

	In  io.Reader // defaults to os.Stdin
	Out io.Writer // defaults to os.Stdout
}

// RunExplore runs the interactive explorer until the user exits or input ends.
// Ctrl+C while a request is loading abandons it; at the prompt it exits.
func RunExplore(opts ExploreOptions) error {
	cfg := opts.Config
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	interactive := !opts.JSON && !opts.Headless
	logger := NewLogger(cfg.Log, opts.Debug, interactive)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		reg := newRegistry()
		metrics = observability.NewMetrics(reg)
		serveMetrics(ctx, cfg.Metrics.Addr, reg, logger)
	}

	ctrl := NewController(cfg, NewTopicService(cfg), logger, metrics)
	defer ctrl.Close()

	var handler runner.IOHandler
	switch {
	case opts.JSON:
		handler = runner.NewJSONHandler(in, out)
	case interactive && in == os.Stdin && tui.IsInteractive(os.Stdout):
		tui.PrintBanner(out, explorer.Version)
		handler = runner.NewTextHandler(out, runner.WithReader(in), runner.WithTextHandlerRenderer(tui.NewRenderer()))
	default:
		handler = runner.NewTextHandler(out, runner.WithReader(in))
	}

	logger.Info("Explorer started", "mode", cfg.Service.Mode, "topic", opts.Topic)
	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
	)
	err := r.Run(ctx, ctrl, opts.Topic)

	if interactive {
		printSystemMessage(out, "Goodbye.")
	}
	return handleExecutionError(err)
}
