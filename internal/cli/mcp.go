package cli

import (
	"context"

	"github.com/ewallt/ai-subject-explorer/internal/config"
	mcpadapter "github.com/ewallt/ai-subject-explorer/pkg/adapters/mcp"
	"github.com/ewallt/ai-subject-explorer/pkg/observability"
)

// MCPOptions contains the configuration for the mcp command.
type MCPOptions struct {
	Config *config.Config
	Debug  bool
	SSE    bool
	Port   int
}

// RunMCP serves a navigation controller over MCP (stdio by default, SSE on request).
// Logs go to stderr so they never corrupt the stdio transport.
func RunMCP(opts MCPOptions) error {
	cfg := opts.Config
	logger := NewLogger(cfg.Log, opts.Debug, false)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		reg := newRegistry()
		metrics = observability.NewMetrics(reg)
		serveMetrics(sigCtx, cfg.Metrics.Addr, reg, logger)
	}

	ctrl := NewController(cfg, NewTopicService(cfg), logger, metrics)
	defer ctrl.Close()

	srv := mcpadapter.NewServer(ctrl, mcpadapter.WithLogger(logger))
	if opts.SSE {
		return srv.ServeSSE(sigCtx, opts.Port)
	}
	return handleExecutionError(srv.ServeStdio())
}
