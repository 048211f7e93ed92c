package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

const DefaultDelay = 250 * time.Millisecond

// Watcher reports changes to a single file. Editors often replace files by
// rename, so the parent directory is watched and events are filtered by name.
type Watcher struct {
	path   string
	delay  time.Duration
	logger *slog.Logger
}

func New(path string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watched path: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: filepath.Clean(absPath), delay: delay, logger: logger}, nil
}

func (w *Watcher) Path() string {
	return w.path
}

// Run calls onChange, debounced, after the file is written, created or
// renamed into place. It blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	debounced := debounce.New(w.delay)
	fire := guarded(ctx, onChange)
	w.logger.Debug("watching image", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("image changed", "path", w.path, "op", event.Op.String())
			debounced(fire)
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("file watcher overflow", "path", w.path)
				debounced(fire)
				continue
			}
			w.logger.Warn("file watcher error", "path", w.path, "error", err)
		}
	}
}

// guarded drops callbacks whose debounce timer fires after ctx is done.
func guarded(ctx context.Context, onChange func()) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		onChange()
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
