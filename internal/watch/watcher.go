package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Config configures the file watcher.
type Config struct {
	// Paths are the files to watch.
	Paths []string

	// Debounce is the delay before reporting a change.
	Debounce time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher monitors files for changes.
type Watcher struct {
	config   Config
	targets  map[string]bool
	logger   *slog.Logger
	mu       sync.Mutex
	onChange func(path string)
	pending  map[string]bool
	timer    *time.Timer
	fs       *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a new file watcher.
func New(config Config) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "watch")
	}
	targets := make(map[string]bool, len(config.Paths))
	for _, p := range config.Paths {
		if abs, err := filepath.Abs(p); err == nil {
			targets[abs] = true
		}
	}
	return &Watcher{
		config:  config,
		targets: targets,
		logger:  logger,
		pending: make(map[string]bool),
		stopCh:  make(chan struct{}),
	}
}

// OnChange sets the callback for file changes. It runs on the watcher's
// goroutine.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching. It returns once the watches are in place; events
// are processed until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(w.targets))
	for p := range w.targets {
		dirs = append(dirs, filepath.Dir(p))
	}
	slices.Sort(dirs)
	for _, dir := range slices.Compact(dirs) {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return err
		}
	}
	w.fs = fs

	w.logger.Debug("watching", "paths", w.config.Paths)
	go w.loop(ctx)
	return nil
}

// Stop stops the watcher. Pending changes are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handle records a change to a watched file and restarts the debounce timer.
func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil || !w.targets[path] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.fire)
}

// fire reports every pending change once.
func (w *Watcher) fire() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	callback := w.onChange
	w.mu.Unlock()

	if callback == nil {
		return
	}
	slices.Sort(paths)
	for _, p := range paths {
		callback(p)
	}
}
