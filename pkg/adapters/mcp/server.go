package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	explorer "github.com/ewallt/ai-subject-explorer"
	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/navigator"
	"github.com/ewallt/ai-subject-explorer/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// StateURI is the resource exposing the current view.
const StateURI = "explorer://state"

// ErrUnknownOption is returned when select_item names neither a label nor a menu index.
var ErrUnknownOption = errors.New("no such option")

// Server exposes a navigation controller as an MCP server.
// One server drives one exploration at a time.
type Server struct {
	ctrl      *navigator.Controller
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(ctrl *navigator.Controller, opts ...Option) *Server {
	s := &Server{
		ctrl:      ctrl,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("explorer-mcp", explorer.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type exploreArgs struct {
	Topic string `mapstructure:"topic"`
}

type selectArgs struct {
	Item string `mapstructure:"item"`
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("explore_topic",
		mcp.WithDescription("Start exploring a subject. Discards the current exploration and returns the top-level menu."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("Subject to explore, e.g. Physics")),
		mcp.WithOutputSchema[runner.View](),
	), mcp.NewStructuredToolHandler(s.handleExplore))

	s.mcpServer.AddTool(mcp.NewTool("select_item",
		mcp.WithDescription("Drill into a menu item of the current exploration. Accepts the label or its 1-based position."),
		mcp.WithString("item", mcp.Required(), mcp.Description("Menu label or 1-based index")),
		mcp.WithOutputSchema[runner.View](),
	), mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Drop the current exploration."),
		mcp.WithOutputSchema[runner.View](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Return the current exploration: path, menu and request status."),
		mcp.WithOutputSchema[runner.View](),
	), mcp.NewStructuredToolHandler(s.handleGetState))
}

func (s *Server) handleExplore(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (runner.View, error) {
	var in exploreArgs
	if err := decodeArgs(args, &in); err != nil {
		return runner.View{}, err
	}
	topic, err := runner.SanitizeInput(in.Topic)
	if err != nil {
		s.logger.Warn("MCP explore_topic: input rejected", "err", err, "size", len(in.Topic))
		return runner.View{}, fmt.Errorf("input rejected: %w", err)
	}

	req, err := s.ctrl.StartSession(ctx, topic)
	if err != nil {
		return runner.View{}, err
	}
	return s.settle(ctx, req)
}

func (s *Server) handleSelect(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (runner.View, error) {
	var in selectArgs
	if err := decodeArgs(args, &in); err != nil {
		return runner.View{}, err
	}
	raw, err := runner.SanitizeInput(in.Item)
	if err != nil {
		s.logger.Warn("MCP select_item: input rejected", "err", err, "size", len(in.Item))
		return runner.View{}, fmt.Errorf("input rejected: %w", err)
	}

	view := runner.NewView(s.ctrl.State())
	if !view.Active() {
		return view, domain.ErrNoActiveSession
	}
	item, ok := view.Resolve(raw)
	if !ok {
		return view, fmt.Errorf("%w: %q", ErrUnknownOption, raw)
	}

	req, err := s.ctrl.SelectItem(ctx, item)
	if err != nil {
		return view, err
	}
	return s.settle(ctx, req)
}

func (s *Server) handleReset(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (runner.View, error) {
	s.ctrl.Reset()
	return runner.NewView(s.ctrl.State()), nil
}

func (s *Server) handleGetState(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (runner.View, error) {
	return runner.NewView(s.ctrl.State()), nil
}

// settle waits for req and returns the resulting view. Topic service failures are
// part of the view, not tool errors.
func (s *Server) settle(ctx context.Context, req *navigator.Request) (runner.View, error) {
	if err := req.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return runner.View{}, ctx.Err()
		}
		s.logger.Debug("MCP request resolved with error", "kind", req.Kind, "generation", req.Generation, "err", err)
	}
	return runner.NewView(s.ctrl.State()), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current Exploration",
		mcp.WithResourceDescription("Path, menu and request status of the active exploration"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(runner.NewView(s.ctrl.State()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StateURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
