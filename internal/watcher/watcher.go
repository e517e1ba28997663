// Package watcher reports content changes of individual files.
//
// Each file is watched through its parent directory so that editors which
// save by writing a temporary file and renaming it over the original are
// still observed. Bursts of file system events are coalesced, and a change
// is only reported when the file's content hash differs from the last one
// seen for that path.
package watcher

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrNotRegularFile  = errors.New("path is not a regular file")
)

// DefaultDebounce is used when no positive debounce delay is configured.
const DefaultDebounce = 100 * time.Millisecond

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Change is a content change of a watched file.
type Change struct {
	// Path is the absolute path of the file.
	Path string

	// Content is the new file content. Nil when Removed is set.
	Content []byte

	// Removed reports that the file no longer exists.
	Removed bool
}

type config struct {
	debounce   time.Duration
	bufferSize int
	logger     *slog.Logger
}

// Option configures a watcher.
type Option func(*config)

// WithDebounce sets the quiet period after which pending changes fire.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		c.debounce = d
	}
}

// WithBufferSize sets the change channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

type fileState struct {
	hash   [32]byte
	exists bool
}

// Watcher delivers content changes of watched files on a channel.
type Watcher struct {
	fsw    *fsnotify.Watcher
	cfg    config
	logger *slog.Logger

	mu     sync.Mutex
	files  map[string]*fileState
	dirs   map[string]int // parent dir -> number of watched files in it
	closed bool

	changes chan Change
	errors  chan error
	flushCh chan chan struct{}
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	cfg := config{
		debounce:   DefaultDebounce,
		bufferSize: 16,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.debounce <= 0 {
		cfg.debounce = DefaultDebounce
	}
	if cfg.bufferSize <= 0 {
		cfg.bufferSize = 16
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		cfg:     cfg,
		logger:  cfg.logger.With("component", "watcher"),
		files:   make(map[string]*fileState),
		dirs:    make(map[string]int),
		changes: make(chan Change, cfg.bufferSize),
		errors:  make(chan error, cfg.bufferSize),
		flushCh: make(chan chan struct{}),
		closeCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch starts watching a regular file. The current content becomes the
// baseline, so only later edits are reported.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotExist, path)
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.files[abs]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyWatching, path)
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = &fileState{hash: blake3.Sum256(data), exists: true}

	w.logger.Debug("watching file", "path", abs)
	return nil
}

// Unwatch stops watching a file.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.files[abs]; !ok {
		return fmt.Errorf("%w: %s", ErrNotWatching, path)
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			return fmt.Errorf("unwatch %s: %w", dir, err)
		}
	}
	return nil
}

// IsWatching returns true if the file is being watched.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

// WatchedPaths returns the watched files in sorted order.
func (w *Watcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Changes returns the channel of content changes.
// The channel is closed when the watcher is closed.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the channel of watcher errors.
// The channel is closed when the watcher is closed.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Flush immediately fires all pending changes and waits until they are
// delivered.
func (w *Watcher) Flush() {
	done := make(chan struct{})
	select {
	case w.flushCh <- done:
		<-done
	case <-w.closeCh:
	}
}

// Close stops the watcher and releases resources.
// After Close, the Changes and Errors channels are closed.
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
	err := w.fsw.Close()

	close(w.changes)
	close(w.errors)
	return err
}

// loop owns the pending set. A single timer is reset on every relevant
// event, so pending paths fire together once the burst has gone quiet.
func (w *Watcher) loop() {
	defer w.wg.Done()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.cfg.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(relevantOps) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !w.IsWatching(path) {
				continue
			}
			pending[path] = struct{}{}
			timer.Reset(w.cfg.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.forwardError(err)

		case <-timer.C:
			w.fire(pending)

		case done := <-w.flushCh:
			timer.Stop()
			w.fire(pending)
			close(done)
		}
	}
}

func (w *Watcher) fire(pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	clear(pending)

	for _, p := range paths {
		change, ok := w.check(p)
		if !ok {
			continue
		}
		select {
		case w.changes <- change:
		case <-w.closeCh:
			return
		}
	}
}

// check reads path and reports whether its content differs from the last
// state seen.
func (w *Watcher) check(path string) (Change, bool) {
	data, err := os.ReadFile(path)
	missing := errors.Is(err, os.ErrNotExist)
	if err != nil && !missing {
		w.forwardError(fmt.Errorf("read %s: %w", path, err))
		return Change{}, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	state, ok := w.files[path]
	if !ok {
		return Change{}, false
	}

	if missing {
		if !state.exists {
			return Change{}, false
		}
		*state = fileState{}
		w.logger.Debug("watched file removed", "path", path)
		return Change{Path: path, Removed: true}, true
	}

	hash := blake3.Sum256(data)
	if state.exists && hash == state.hash {
		w.logger.Debug("content unchanged", "path", path)
		return Change{}, false
	}
	*state = fileState{hash: hash, exists: true}
	w.logger.Debug("content changed", "path", path, "bytes", len(data))
	return Change{Path: path, Content: data}, true
}

func (w *Watcher) forwardError(err error) {
	select {
	case w.errors <- err:
	default:
		w.logger.Warn("watcher error dropped", "error", err)
	}
}
