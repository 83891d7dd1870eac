package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchFile calls fn each time path is written or re-created, until ctx is
// done. It watches the parent directory so editors that save by rename
// are still seen. WatchFile blocks; run it on its own goroutine when the
// caller has other work.
func WatchFile(ctx context.Context, path string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("file watcher add %s: %w", path, err)
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				fn()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher: %w", err)
		case <-ctx.Done():
			return nil
		}
	}
}

// Watch reloads the config at path whenever it changes and hands the
// result to fn. A reload that fails is reported through err and the
// caller keeps its previous settings.
func Watch(ctx context.Context, path string, fn func(cfg *Config, err error)) error {
	return WatchFile(ctx, path, func() {
		fn(Load(path))
	})
}
