package cfgtree

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// FileWatcherOptions configures WatchFile.
type FileWatcherOptions struct {
	// Logger receives reload failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Debounce is how long to wait after the last write before reloading.
	// Defaults to 100ms.
	Debounce time.Duration
}

// FileWatcher keeps an interior node in sync with a YAML file on disk.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	root     *Topics
	logger   *slog.Logger
	debounce time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// WatchFile loads path into root and reloads it whenever the file changes.
// The file's directory is watched rather than the file itself, so the file
// may be replaced atomically (write + rename) as editors and config writers
// commonly do.
func WatchFile(path string, root *Topics, opts FileWatcherOptions) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cfgtree: resolve %s: %w", path, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("cfgtree: read %s: %w", abs, err)
	}
	if err := root.UpdateFromYAML(data); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cfgtree: watch %s: %w", abs, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("cfgtree: watch %s: %w", abs, err)
	}

	f := &FileWatcher{
		watcher:  watcher,
		path:     abs,
		root:     root,
		logger:   logger,
		debounce: debounce,
	}
	go f.run()
	return f, nil
}

func (f *FileWatcher) run() {
	for {
		select {
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			f.schedule()
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Error("config watch error", "path", f.path, "err", err)
		}
	}
}

// schedule coalesces a burst of file events into a single reload.
func (f *FileWatcher) schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	if f.timer == nil {
		f.timer = time.AfterFunc(f.debounce, f.reload)
	} else {
		f.timer.Reset(f.debounce)
	}
}

func (f *FileWatcher) reload() {
	f.mu.Lock()
	f.timer = nil
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		f.logger.Error("reload config", "path", f.path, "err", err)
		return
	}
	if err := f.root.UpdateFromYAML(data); err != nil {
		f.logger.Error("reload config", "path", f.path, "err", err)
		return
	}
	f.logger.Debug("config reloaded", "path", f.path)
}

// Close stops watching. A pending debounced reload is cancelled.
func (f *FileWatcher) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.mu.Unlock()

	return f.watcher.Close()
}
