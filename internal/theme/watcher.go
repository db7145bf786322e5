package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events from editors and installers.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches the active theme file candidates and calls back when one
// of them changes.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	// Files being watched
	paths []string

	debounce time.Duration

	// Callback for changes
	onChangeCallback func()

	stopCh chan struct{}
	doneCh chan struct{}

	running bool
}

// NewWatcher creates a watcher for the locator's user and system files.
func NewWatcher(locator Locator, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	var paths []string
	for _, p := range []string{locator.UserPath, locator.SystemPath} {
		if p != "" {
			paths = append(paths, filepath.Clean(p))
		}
	}

	return &Watcher{
		logger:   logger,
		paths:    paths,
		debounce: DefaultDebounce,
	}
}

// SetDebounce sets how long the watcher waits for events to settle.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// SetChangeCallback sets the callback to invoke when a watched file changes.
func (w *Watcher) SetChangeCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChangeCallback = callback
}

// Start begins watching. The parent directory of each file is watched so
// files created after start, or replaced by rename, are picked up.
// Directories that do not exist are skipped.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	added := 0
	seen := make(map[string]bool)
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			w.logger.Debug("not watching missing directory", "dir", dir)
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory", "dir", dir, "error", err)
			continue
		}
		added++
	}

	w.running = true
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	w.stopCh = stopCh
	w.doneCh = doneCh
	debounce := w.debounce
	w.mu.Unlock()

	go w.watchLoop(ctx, fsw, stopCh, doneCh, debounce)

	w.logger.Debug("theme watcher started", "paths", w.paths, "dirs", added)
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	doneCh := w.doneCh
	w.mu.Unlock()

	// Wait for goroutine to finish
	<-doneCh
	w.logger.Debug("theme watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan struct{}, debounce time.Duration) {
	defer close(doneCh)
	defer func() {
		// Clear running unless a later Start already replaced this loop.
		w.mu.Lock()
		if w.doneCh == doneCh {
			w.running = false
		}
		w.mu.Unlock()
	}()
	defer fsw.Close()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, w.fire)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches one of the watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, p := range w.paths {
		if name == p {
			return true
		}
	}
	return false
}

func (w *Watcher) fire() {
	w.mu.RLock()
	callback := w.onChangeCallback
	running := w.running
	w.mu.RUnlock()

	if !running || callback == nil {
		return
	}
	w.logger.Info("active theme file changed")
	callback()
}
