package aliases

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/triskis777/ketaverso-bot/logging"
)

// Watcher reloads the alias table when its file is edited outside the bot.
// It watches the parent directory because editors and WriteFile replace the file by rename.
type Watcher struct {
	container   *Container
	watcher     *fsnotify.Watcher
	fileName    string
	debounceDur time.Duration

	mu      sync.Mutex
	pending time.Time // zero when nothing is waiting
	reloads int

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for the container's backing file
func NewWatcher(container *Container) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create alias file watcher: %w", err)
	}

	return &Watcher{
		container:   container,
		watcher:     fw,
		fileName:    filepath.Base(container.Path()),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Run watches until ctx is cancelled or Stop is called. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.container.Path())
	if err := w.watcher.Add(dir); err != nil {
		_ = w.watcher.Close()
		close(w.doneCh)
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.Info("Watching alias file for changes", "path", w.container.Path())

	defer close(w.doneCh)
	defer w.watcher.Close()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Alias file watcher error", "error", err)

		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

// Stop ends Run and waits for it to return
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
}

// Reloads returns how many reloads were attempted
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != w.fileName {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	w.pending = time.Now().Add(w.debounceDur)
	w.mu.Unlock()
}

func (w *Watcher) flush(now time.Time) {
	w.mu.Lock()
	if w.pending.IsZero() || now.Before(w.pending) {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.reloads++
	w.mu.Unlock()

	if err := w.container.Reload(); err != nil {
		logging.Error("Keeping previous alias table", "error", err)
	}
}
