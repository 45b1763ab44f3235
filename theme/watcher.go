package theme

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textweave"
)

// defaultDebounce batches the event bursts editors produce when saving.
const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a theme file when it changes on disk and hands the fresh
// theme to a callback. The parent directory is watched rather than the file
// itself so editors that save by rename and replace are still caught.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(*Theme)
	onError  func(error)
	logger   *textweave.Logger
	closed   bool
	closeCh  chan struct{}
	wg       sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long changes must settle before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger for watch activity.
func WithLogger(l *textweave.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithErrorHandler sets the callback for watch and reload errors. Without
// one, errors are logged and otherwise dropped.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher watches path and invokes onChange with the freshly loaded
// theme after each change settles. Close releases the watch.
func NewWatcher(path string, onChange func(*Theme), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving theme path %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		debounce: defaultDebounce,
		onChange: onChange,
		logger:   textweave.NullLogger,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w.wg.Add(1)
	go w.processLoop()

	w.logger.Debug("watching theme file %s", abs)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// processLoop drains filesystem events, debouncing changes to the theme
// file into a single reload.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()
		}
	}
}

// matches reports whether the event is a content change to the watched file.
func (w *Watcher) matches(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(ev.Name) == w.path
}

func (w *Watcher) reload() {
	t, err := Load(w.path)
	if err != nil {
		w.reportError(err)
		return
	}
	w.logger.Debug("theme %s reloaded from %s", t.Name(), w.path)
	w.onChange(t)
}

func (w *Watcher) reportError(err error) {
	w.logger.Warn("theme watch error: %v", err)
	if w.onError != nil {
		w.onError(err)
	}
}
