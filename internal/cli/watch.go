package cli

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ewallt/ai-subject-explorer/pkg/topics"
)

// reloadHub runs a single catalog watch and fans its notifications out to
// every caller of Watch (one per SSE client).
type reloadHub struct {
	mu     sync.Mutex
	subs   map[chan struct{}]struct{}
	closed bool
}

// startReloadHub starts watching the catalog file of reloader until ctx is done.
func startReloadHub(ctx context.Context, reloader *topics.Reloader, logger *slog.Logger, out io.Writer) (*reloadHub, error) {
	events, err := reloader.Watch(ctx)
	if err != nil {
		return nil, err
	}

	hub := &reloadHub{subs: make(map[chan struct{}]struct{})}
	go func() {
		for range events {
			logger.Info("Catalog reloaded", "rules", len(reloader.Catalog().Rules))
			printSystemMessage(out, "Catalog reloaded.")
			hub.publish()
		}
		hub.closeAll()
	}()
	return hub, nil
}

// Watch implements http.ReloadSource.
func (h *reloadHub) Watch(ctx context.Context) (<-chan struct{}, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.closed {
		close(ch)
		return ch, nil
	}
	h.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}()
	return ch, nil
}

func (h *reloadHub) publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
			// A notice is already pending for this subscriber.
		}
	}
}

func (h *reloadHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		close(ch)
	}
	h.subs = nil
	h.closed = true
}
