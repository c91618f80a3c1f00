package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ewallt/ai-subject-explorer/internal/config"
	httpadapter "github.com/ewallt/ai-subject-explorer/pkg/adapters/http"
	"github.com/ewallt/ai-subject-explorer/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	Config *config.Config
	Debug  bool
	Out    io.Writer
}

// Serve runs the topic service HTTP server until SIGINT or SIGTERM.
func Serve(opts ServeOptions) error {
	cfg := opts.Config
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := NewLogger(cfg.Log, opts.Debug, false)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	backend, err := NewBackend(sigCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	reg := newRegistry()
	srvOpts := []httpadapter.Option{
		httpadapter.WithLogger(logger),
		httpadapter.WithMetrics(observability.NewMetrics(reg), reg),
	}

	if cfg.Server.Watch {
		if backend.Reloader == nil {
			logger.Warn("Catalog watch requested without a catalog file; ignoring")
		} else {
			hub, err := startReloadHub(sigCtx, backend.Reloader, logger, out)
			if err != nil {
				return fmt.Errorf("failed to watch catalog: %w", err)
			}
			srvOpts = append(srvOpts, httpadapter.WithReloadSource(hub))
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	printSystemMessage(out, "Topic service listening on %s (store: %s).", addr, cfg.Server.Store)
	err = listenAndServe(sigCtx, addr, httpadapter.NewHandler(backend.Service, srvOpts...), logger)
	if sig := sigCtx.Signal(); sig != nil {
		printSystemMessage(out, "Received %s, server stopped.", sig)
	}
	return err
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics exposes reg on addr until ctx is done. Failures are logged only.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := listenAndServe(ctx, addr, mux, logger); err != nil {
			logger.Error("Metrics listener failed", "addr", addr, "err", err)
		}
	}()
}

// listenAndServe serves handler on addr and shuts down gracefully when ctx is done.
func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Long-lived streams end with ctx instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP listener started", "addr", addr)
		serverErrors <- srv.ListenAndServe()
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
		logger.Info("Shutting down HTTP listener", "addr", addr)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}
