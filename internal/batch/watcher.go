package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports files under root that match the walker once they stop
// changing for the debounce interval.
type Watcher struct {
	root     string
	walker   *Walker
	interval time.Duration
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*Debouncer
}

func NewWatcher(root string, walker *Walker, interval time.Duration) (*Watcher, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("[Watcher] failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		walker:   walker,
		interval: interval,
		watcher:  fw,
		pending:  make(map[string]*Debouncer),
	}

	if err := w.addDirectory(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Watch blocks until ctx is canceled, calling callback from a timer goroutine
// for every settled file.
func (w *Watcher) Watch(ctx context.Context, callback func(path string)) error {
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event, callback)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("[Watcher] File watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event, callback func(path string)) {
	if !w.shouldProcessEvent(event) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectory(event.Name); err != nil {
				slog.Warn("[Watcher] Failed to watch new directory",
					slog.String("dir", event.Name),
					slog.String("error", err.Error()))
			}
			return
		}
	}

	relPath, err := filepath.Rel(w.root, event.Name)
	if err != nil || !w.walker.Matches(filepath.ToSlash(relPath)) {
		return
	}

	path := event.Name
	w.mu.Lock()
	d, ok := w.pending[path]
	if !ok {
		d = NewDebouncer(w.interval, func() {
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
			callback(path)
		})
		w.pending[path] = d
	}
	w.mu.Unlock()

	d.Trigger()
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	// Removed files have nothing left to analyze.
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		if relPath, err := filepath.Rel(w.root, path); err == nil && relPath != "." {
			if w.walker.shouldExclude(filepath.ToSlash(relPath) + "/") {
				return filepath.SkipDir
			}
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("[Watcher] failed to watch %s: %w", path, err)
		}
		slog.Debug("[Watcher] Watching directory", slog.String("dir", path))
		return nil
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, d := range w.pending {
		d.Stop()
		delete(w.pending, path)
	}
}

// Debouncer runs callback once after Trigger stops being called for interval.
type Debouncer struct {
	interval time.Duration
	callback func()

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(interval time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		interval: interval,
		callback: callback,
	}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.callback)
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
