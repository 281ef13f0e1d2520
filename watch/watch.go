// Package watch regenerates packages when their Go files change.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/logger"
)

// DefaultDebounce collapses bursts of events, such as an editor saving
// several files, into one run.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the sorted directories that changed since the
// last call. An error is logged and watching continues.
type Handler func(ctx context.Context, dirs []string) error

// Watcher watches package directories for source changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dirs     map[string]bool
	debounce time.Duration

	mu      sync.Mutex
	ignored map[string]bool
}

// New watches dirs. A zero debounce uses DefaultDebounce.
func New(dirs []string, debounce time.Duration) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, errors.NewInvalidTargetError("nothing to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fw,
		dirs:     map[string]bool{},
		debounce: debounce,
		ignored:  map[string]bool{},
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "resolving %s", dir)
		}
		if w.dirs[abs] {
			continue
		}
		if err := fw.Add(abs); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", abs)
		}
		w.dirs[abs] = true
	}
	return w, nil
}

// WatchConfig also watches the project configuration file. A change to
// it regenerates every package.
func (w *Watcher) WatchConfig(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	return nil
}

// Ignore skips events for path. Generated files are registered here so
// writing them does not trigger another run.
func (w *Watcher) Ignore(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignored[abs] = true
}

func (w *Watcher) isIgnored(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ignored[path]
}

// relevant reports whether an event on path can change generated output.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if base == config.FileName {
		return true
	}
	if !strings.HasSuffix(base, ".go") || strings.HasSuffix(base, "_test.go") {
		return false
	}
	// Editor temp and hidden files
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") {
		return false
	}
	return !w.isIgnored(event.Name)
}

// Run calls handle after each debounced burst of changes until ctx is
// done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]bool{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				logger.FieldOp, event.Op.String())

			if filepath.Base(event.Name) == config.FileName {
				for dir := range w.dirs {
					pending[dir] = true
				}
			} else if dir := filepath.Dir(event.Name); w.dirs[dir] {
				pending[dir] = true
			} else {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			dirs := make([]string, 0, len(pending))
			for dir := range pending {
				dirs = append(dirs, dir)
			}
			sort.Strings(dirs)
			pending = map[string]bool{}

			if err := handle(ctx, dirs); err != nil {
				logger.Errorw("Regeneration failed",
					logger.FieldDirs, dirs,
					logger.FieldError, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}
