package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/ewallt/ai-subject-explorer/pkg/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReloadHub(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [v1]\nfallback: [f]\n"), 0o644))
	reloader, err := topics.NewReloader(path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	hub, err := startReloadHub(ctx, reloader, logging.NewNop(), out)
	require.NoError(t, err)

	subCtx, subCancel := context.WithCancel(ctx)
	a, err := hub.Watch(subCtx)
	require.NoError(t, err)
	b, err := hub.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("root: [v2]\nfallback: [f]\n"), 0o644))

	for _, ch := range []<-chan struct{}{a, b} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for reload notice")
		}
	}
	assert.Contains(t, out.String(), "Catalog reloaded.")

	subCancel()
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-a:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "unsubscribed channel is closed")

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-b:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "hub closes subscribers when the watch ends")
}
