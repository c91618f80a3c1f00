package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ewallt/ai-subject-explorer/internal/config"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/file"
	httpadapter "github.com/ewallt/ai-subject-explorer/pkg/adapters/http"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/memory"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/mock"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/redis"
	"github.com/ewallt/ai-subject-explorer/pkg/navigator"
	"github.com/ewallt/ai-subject-explorer/pkg/observability"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
	"github.com/ewallt/ai-subject-explorer/pkg/session"
	"github.com/ewallt/ai-subject-explorer/pkg/topics"
)

// NewTopicService builds the topic service a client controller talks to.
func NewTopicService(cfg *config.Config) ports.TopicService {
	if cfg.Service.Mode == config.ModeHTTP {
		return httpadapter.NewClient(cfg.Service.URL)
	}

	opts := []mock.Option{mock.WithDelay(cfg.Mock.Delay)}
	if cfg.Mock.FailStart {
		opts = append(opts, mock.WithStartError(mock.ErrInjected))
	}
	if cfg.Mock.FailSelect {
		opts = append(opts, mock.WithSelectError(mock.ErrInjected))
	}
	return mock.New(opts...)
}

// NewController wires a navigation controller with logging hooks and, when m is set, metrics.
func NewController(cfg *config.Config, svc ports.TopicService, logger *slog.Logger, m *observability.Metrics) *navigator.Controller {
	hooks := observability.LogHooks(logger)
	if m != nil {
		svc = observability.InstrumentService(svc, m)
		hooks = observability.CombineHooks(hooks, m.Hooks())
	}
	return navigator.New(svc,
		navigator.WithLogger(logger),
		navigator.WithLifecycleHooks(hooks),
		navigator.WithRequestTimeout(cfg.Service.RequestTimeout),
	)
}

// Backend is the server side of the topic service.
type Backend struct {
	Service  *topics.Service
	Reloader *topics.Reloader // nil when the built-in catalog is used
	Store    ports.SessionStore

	closers []func() error
}

// Close releases the store connection.
func (b *Backend) Close() error {
	var firstErr error
	for _, c := range b.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewStore opens the session store selected by cfg. The returned locker is nil
// for single-process stores.
func NewStore(ctx context.Context, cfg config.ServerConfig) (ports.SessionStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return store, redis.NewLocker(store.Client(), store.Prefix()), store.Close, nil
	case config.StoreFile:
		return file.New(cfg.DataDir), nil, nil, nil
	default:
		return memory.NewStore(), nil, nil, nil
	}
}

// NewBackend builds the topic service served by `explorer serve`.
func NewBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	store, locker, closeStore, err := NewStore(ctx, cfg.Server)
	if err != nil {
		return nil, err
	}

	b := &Backend{Store: store}
	if closeStore != nil {
		b.closers = append(b.closers, closeStore)
	}

	var generator topics.Generator = topics.DefaultCatalog()
	if cfg.Server.Catalog != "" {
		b.Reloader, err = topics.NewReloader(cfg.Server.Catalog, logger)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		generator = b.Reloader
	}

	mgrOpts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		mgrOpts = append(mgrOpts, session.WithLocker(locker))
	}
	b.Service = topics.NewService(session.NewManager(store, mgrOpts...),
		topics.WithGenerator(generator),
		topics.WithLogger(logger),
	)

	logger.Info("Topic service ready", "store", cfg.Server.Store, "catalog", cfg.Server.Catalog)
	return b, nil
}
