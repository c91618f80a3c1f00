package http

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
	"github.com/ewallt/ai-subject-explorer/pkg/observability"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
	"github.com/ewallt/ai-subject-explorer/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Backend is the topic service exposed by the server, plus the session bookkeeping
// behind the inspection routes. topics.Service and Client both satisfy it.
type Backend interface {
	ports.TopicService
	Lookup(ctx context.Context, sessionID string) (*domain.Exploration, error)
	End(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

// ReloadSource signals catalog reloads for the global event stream.
type ReloadSource interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Server serves the topic service over HTTP.
type Server struct {
	backend  Backend
	topics   ports.TopicService
	reloads  ReloadSource
	gatherer prometheus.Gatherer
	streams  *StreamManager
	logger   *slog.Logger
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

// WithReloadSource feeds GET /events (without session_id) from src.
func WithReloadSource(src ReloadSource) Option {
	return func(s *Server) {
		s.reloads = src
	}
}

// WithMetrics instruments topic service calls with m and serves g on /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		if m != nil {
			s.topics = observability.InstrumentService(s.backend, m)
		}
		s.gatherer = g
	}
}

// NewServer creates a server over backend.
func NewServer(backend Backend, opts ...Option) *Server {
	s := &Server{
		backend: backend,
		topics:  backend,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for backend.
func NewHandler(backend Backend, opts ...Option) http.Handler {
	return NewServer(backend, opts...).Handler()
}

// Streams exposes the session stream fan-out.
func (s *Server) Streams() *StreamManager {
	return s.streams
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(requestValidator)
		r.Post("/sessions", s.StartSession)
		r.Get("/sessions", s.ListSessions)
		r.Get("/sessions/{sessionId}", s.GetSession)
		r.Delete("/sessions/{sessionId}", s.EndSession)
		r.Post("/sessions/{sessionId}/selections", s.SelectItem)
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>AI Subject Explorer API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("StartSession: invalid request body", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	topic, err := runner.SanitizeInput(body.Topic)
	if err != nil {
		s.writeError(w, "StartSession", err)
		return
	}

	res, err := s.topics.StartSession(r.Context(), topic)
	if err != nil {
		s.writeError(w, "StartSession", err)
		return
	}

	writeJSON(w, http.StatusCreated, StartSessionResponse{SessionID: res.SessionID, Menu: res.Menu})
}

// SelectItem handles POST /sessions/{sessionId}/selections.
func (s *Server) SelectItem(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		s.writeError(w, "SelectItem", err)
		return
	}

	var body SelectItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("SelectItem: invalid request body", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item, err := runner.SanitizeInput(body.Item)
	if err != nil {
		s.writeError(w, "SelectItem", err)
		return
	}

	menu, err := s.topics.SelectItem(r.Context(), sessionID, item)
	if err != nil {
		s.writeError(w, "SelectItem", err)
		return
	}

	if s.streams.Subscribers(sessionID) > 0 {
		update := Update{Type: UpdateSelection, SessionID: sessionID, Item: item}
		if exp, err := s.backend.Lookup(r.Context(), sessionID); err == nil {
			update.Exploration = exp
		}
		s.broadcast(update)
	}

	writeJSON(w, http.StatusOK, SelectItemResponse{Menu: menu})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.backend.Sessions(r.Context())
	if err != nil {
		s.writeError(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// GetSession handles GET /sessions/{sessionId}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	exp, err := s.backend.Lookup(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// EndSession handles DELETE /sessions/{sessionId}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDParam(r)
	if err != nil {
		s.writeError(w, "EndSession", err)
		return
	}
	if err := s.backend.End(r.Context(), sessionID); err != nil {
		s.writeError(w, "EndSession", err)
		return
	}
	s.broadcast(Update{Type: UpdateEnded, SessionID: sessionID})
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "explorer-http",
		"version":     explorer.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var sessionID *string
	if err := runtime.BindQueryParameter("form", true, false, "session_id", r.URL.Query(), &sessionID); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid session_id: %v", err)})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.logger.Error("SubscribeEvents: streaming not supported")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "streaming not supported"})
		return
	}

	if sessionID == nil || *sessionID == "" {
		s.streamReloads(w, r, flusher)
		return
	}

	s.logger.Info("SSE: subscribing to session updates", "session_id", *sessionID)
	ch, cancel := s.streams.Subscribe(*sessionID)
	defer cancel()

	startStream(w, flusher)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", *sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) streamReloads(w http.ResponseWriter, r *http.Request, flusher http.Flusher) {
	var events <-chan struct{}
	if s.reloads != nil {
		var err error
		events, err = s.reloads.Watch(r.Context())
		if err != nil {
			s.logger.Error("SubscribeEvents: watch failed", "err", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("watch error: %v", err)})
			return
		}
	}

	s.logger.Info("SSE: subscribing to catalog reloads")
	startStream(w, flusher)
	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprint(w, "event: reload\ndata: catalog\n\n")
			flusher.Flush()
		}
	}
}

func startStream(w http.ResponseWriter, flusher http.Flusher) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
}

func (s *Server) broadcast(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		s.logger.Error("Failed to encode session update", "session_id", u.SessionID, "err", err)
		return
	}
	s.streams.Broadcast(u.SessionID, string(data))
}

func sessionIDParam(r *http.Request) (string, error) {
	var sessionID string
	err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &sessionID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMissingSessionID, err)
	}
	return sessionID, nil
}

// StatusCode maps a topic service error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrEmptyItem),
		errors.Is(err, domain.ErrMissingSessionID),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyMenu):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err, "status", status)
	} else {
		s.logger.Warn(op+" rejected", "err", err, "status", status)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
