package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ewallt/ai-subject-explorer/internal/config"
	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/file"
	httpadapter "github.com/ewallt/ai-subject-explorer/pkg/adapters/http"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/memory"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/mock"
	"github.com/ewallt/ai-subject-explorer/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopicService(t *testing.T) {
	cfg := config.Default()
	assert.IsType(t, &mock.Service{}, NewTopicService(cfg))

	cfg.Service.Mode = config.ModeHTTP
	cfg.Service.URL = "http://localhost:1"
	assert.IsType(t, &httpadapter.Client{}, NewTopicService(cfg))
}

func TestNewTopicService_FailureInjection(t *testing.T) {
	cfg := config.Default()
	cfg.Mock.Delay = 0
	cfg.Mock.FailStart = true

	_, err := NewTopicService(cfg).StartSession(context.Background(), "Physics")
	assert.ErrorIs(t, err, mock.ErrInjected)
}

func TestNewController(t *testing.T) {
	cfg := config.Default()
	cfg.Mock.Delay = 0
	ctrl := NewController(cfg, NewTopicService(cfg), logging.NewNop(), nil)
	defer ctrl.Close()

	req, err := ctrl.StartSession(context.Background(), "Physics")
	require.NoError(t, err)
	require.NoError(t, req.Wait(context.Background()))
	assert.Len(t, ctrl.State().Session.Menu, 4)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, locker, closeFn, err := NewStore(ctx, config.ServerConfig{Store: config.StoreMemory})
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
		assert.Nil(t, locker)
		assert.Nil(t, closeFn)
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		store, _, _, err := NewStore(ctx, config.ServerConfig{Store: config.StoreFile, DataDir: dir})
		require.NoError(t, err)
		require.IsType(t, &file.Store{}, store)
		assert.Equal(t, dir, store.(*file.Store).BasePath)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, locker, closeFn, err := NewStore(ctx, config.ServerConfig{
			Store: config.StoreRedis,
			Redis: config.RedisConfig{Addr: mr.Addr(), Prefix: "test:", TTL: time.Minute},
		})
		require.NoError(t, err)
		defer closeFn()
		require.IsType(t, &redis.Store{}, store)
		assert.Equal(t, "test:", store.(*redis.Store).Prefix())
		assert.NotNil(t, locker)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		_, _, _, err := NewStore(ctx, config.ServerConfig{Store: config.StoreRedis, Redis: config.RedisConfig{Addr: addr}})
		assert.Error(t, err)
	})
}

func TestNewBackend_Catalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [\"Basics of {topic}\"]\nfallback: [More]\n"), 0o644))

	cfg := config.Default()
	cfg.Server.Catalog = path
	b, err := NewBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer b.Close()
	require.NotNil(t, b.Reloader)

	res, err := b.Service.StartSession(context.Background(), "Go")
	require.NoError(t, err)
	assert.Equal(t, []string{"Basics of Go"}, res.Menu)
}

func TestNewBackend_BadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [\n"), 0o644))

	cfg := config.Default()
	cfg.Server.Catalog = path
	_, err := NewBackend(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}
