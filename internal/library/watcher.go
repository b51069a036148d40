package library

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"tube-adventures/internal/metrics"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before reporting a change.
const DefaultDebounce = 2 * time.Second

// Watcher reports changes to the annotation files of a directory.
type Watcher struct {
	dir      string
	ext      string
	debounce time.Duration
	onChange func()

	running atomic.Bool
	mu      sync.Mutex
	timer   *time.Timer
}

// NewWatcher creates a watcher calling onChange after annotation files in
// dir are created, written, removed or renamed.
func NewWatcher(dir, ext string, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		ext:      ext,
		debounce: debounce,
		onChange: onChange,
	}
}

// Running reports whether Watch is receiving events.
func (w *Watcher) Running() bool {
	return w.running.Load()
}

// Watch monitors the directory until ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Error("failed to close file watcher: %v", err)
		}
	}()

	if err := watcher.Add(w.dir); err != nil {
		metrics.WatcherErrors.Inc()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	log.Debug("Watching %s for annotation changes", w.dir)

	w.running.Store(true)
	defer w.running.Store(false)
	defer w.stopTimer()

	w.processWatcherEvents(ctx, watcher)
	return nil
}

// processWatcherEvents handles file system events from the watcher
func (w *Watcher) processWatcherEvents(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleWatcherEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleWatcherEvent(event fsnotify.Event) {
	eventType := getEventType(event.Op)
	metrics.WatcherEventsTotal.WithLabelValues(eventType).Inc()

	if !w.relevant(event) {
		return
	}
	log.Debug("%s %s", eventType, event.Name)
	w.schedule()
}

// relevant filters out hidden files, other extensions and permission changes.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != w.ext {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// getEventType returns a string representation of the fsnotify operation
func getEventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
