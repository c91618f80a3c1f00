package topics

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Reloader is a Generator backed by a catalog file that can be hot-reloaded.
// An invalid edit is logged and the last good catalog stays active.
type Reloader struct {
	path    string
	current atomic.Pointer[Catalog]
	logger  *slog.Logger
}

var _ Generator = (*Reloader)(nil)

// NewReloader loads path once and returns a Reloader serving it.
func NewReloader(path string, logger *slog.Logger) (*Reloader, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	c, err := LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	r := &Reloader{path: path, logger: logger}
	r.current.Store(c)
	return r, nil
}

// Catalog returns the active catalog.
func (r *Reloader) Catalog() *Catalog { return r.current.Load() }

// RootMenu implements Generator.
func (r *Reloader) RootMenu(topic string) []string { return r.current.Load().RootMenu(topic) }

// Submenu implements Generator.
func (r *Reloader) Submenu(topic string, path []string, item string) []string {
	return r.current.Load().Submenu(topic, path, item)
}

// Reload re-reads the catalog file.
func (r *Reloader) Reload() error {
	c, err := LoadCatalog(r.path)
	if err != nil {
		return err
	}
	r.current.Store(c)
	return nil
}

// Watch reloads the catalog whenever its file changes and signals each successful
// reload on the returned channel. The channel is closed when ctx is done.
// The parent directory is watched so that editors replacing the file are handled.
func (r *Reloader) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(r.path)
	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if err := r.Reload(); err != nil {
					r.logger.Warn("Catalog reload failed, keeping previous version", "path", r.path, "err", err)
					continue
				}
				r.logger.Info("Catalog reloaded", "path", r.path)
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.logger.Warn("Catalog watcher error", "err", err)
			}
		}
	}()

	return changes, nil
}
