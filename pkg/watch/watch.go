// Package watch re-runs a handler when PPT documents change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papercomputeco/pptree/pkg/logger"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Handler is invoked with the path of a changed file once writes to it have
// settled.
type Handler func(ctx context.Context, path string) error

// Config configures a Watcher.
type Config struct {
	// Paths are the files to watch. Their parent directories are watched so
	// that editors replacing a file on save are still observed.
	Paths []string

	// Debounce is how long a file must be quiet before Handler runs.
	Debounce time.Duration

	Logger *slog.Logger
}

// Watcher dispatches debounced change notifications for a set of files.
type Watcher struct {
	paths    map[string]struct{}
	dirs     []string
	debounce time.Duration
	handler  Handler
	logger   *slog.Logger
}

// New validates the config and returns a Watcher. Nothing is watched until
// Run is called.
func New(c Config, h Handler) (*Watcher, error) {
	if len(c.Paths) == 0 {
		return nil, errors.New("watch requires at least one path")
	}
	if h == nil {
		return nil, errors.New("watch requires a handler")
	}

	w := &Watcher{
		paths:    make(map[string]struct{}, len(c.Paths)),
		debounce: c.Debounce,
		handler:  h,
		logger:   c.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = logger.Nop()
	}

	seen := map[string]struct{}{}
	for _, p := range c.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		w.paths[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			w.dirs = append(w.dirs, dir)
		}
	}

	return w, nil
}

// Run blocks until ctx is cancelled, calling the handler for each settled
// change. Handler errors are logged and do not stop the watcher. Handler
// calls never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	fire := make(chan string)

	var mu sync.Mutex
	timers := map[string]*time.Timer{}
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if t, ok := timers[path]; ok {
			t.Reset(w.debounce)
			return
		}
		timers[path] = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if _, watched := w.paths[name]; !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("file changed", "path", name, "op", event.Op.String())
			schedule(name)

		case path := <-fire:
			if err := w.handler(ctx, path); err != nil {
				w.logger.Error("handling change", "path", path, "error", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
