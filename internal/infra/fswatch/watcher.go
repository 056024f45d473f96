// Package fswatch implements ports.Watcher with fsnotify. It watches the
// directories holding the given files, since editors often save by writing a
// temp file and renaming it over the original, and only reports events for
// the files or glob patterns it was asked about.
package fswatch

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/infra/logger"
	"github.com/AustinGrey/bake-file/internal/ports"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration

	done    chan struct{}
	stopped bool
	mu      sync.Mutex

	// pending maps a path to the generation of its latest event; only the
	// timer armed by that event reports the change.
	pending map[string]uint64
	seq     uint64
}

type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its change is
// reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

var _ ports.Watcher = (*Watcher)(nil)

func NewWatcher(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &domain.OpError{
			Op:   "fswatch.new",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	w := &Watcher{
		fw:       fw,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
		pending:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch starts monitoring paths. An entry containing glob metacharacters is
// matched against every file created or changed in its directory, so files
// added later are reported too. onChange receives the absolute path of each
// changed file once it has been quiet for the debounce interval.
func (w *Watcher) Watch(paths []string, onChange func(path string)) error {
	if len(paths) == 0 {
		return &domain.OpError{
			Op:   "fswatch.watch",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("no files to watch"),
		}
	}

	log := logger.Component("fswatch")

	files := make(map[string]bool, len(paths))
	var globs []string
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return &domain.OpError{Op: "fswatch.watch", Kind: domain.KindExecution, Path: p, Err: err}
		}
		dir := filepath.Dir(abs)
		if isGlob(abs) {
			if isGlob(dir) {
				log.Warn("fswatch.glob_skipped", "pattern", p, "reason", "directory part contains wildcards")
				continue
			}
			globs = append(globs, abs)
		} else {
			files[abs] = true
		}
		dirs[dir] = true
	}
	if len(dirs) == 0 {
		return &domain.OpError{
			Op:   "fswatch.watch",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("no watchable files or directories"),
		}
	}
	for dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return &domain.OpError{Op: "fswatch.watch", Kind: domain.KindNotFound, Path: dir, Err: err}
		}
	}

	matches := func(path string) bool {
		if files[path] {
			return true
		}
		for _, g := range globs {
			if ok, _ := filepath.Match(g, path); ok {
				return true
			}
		}
		return false
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := filepath.Clean(event.Name)
				if !matches(path) {
					continue
				}
				if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
					continue
				}

				log.Debug("fswatch.event", "path", path, "op", event.Op.String())
				w.schedule(path, onChange)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				log.Warn("fswatch.error", "err", err)

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the quiet-period timer for path. Earlier timers for the
// same path become no-ops.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.seq++
	gen := w.seq
	w.pending[path] = gen

	time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		latest := !w.stopped && w.pending[path] == gen
		if latest {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if latest {
			logger.Component("fswatch").Debug("fswatch.changed", "path", path)
			onChange(path)
		}
	})
}

// Stop ends monitoring and drops pending notifications. Safe to call multiple
// times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
