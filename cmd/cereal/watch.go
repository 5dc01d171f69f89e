package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Changes closer together than this trigger a single run
const watchDebounce = 100 * time.Millisecond

// watchScript runs path, then runs it again after every change until ctx is
// cancelled. Script errors are reported and watching continues.
func (a *app) watchScript(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error starting file watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched so a file replaced by rename is still seen
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("error watching %s: %w", path, err)
	}

	printf(a.stderr, "%s\n", Colorize(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path), ColorGray, a.useColor))
	a.runWatched(ctx, path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.logger.Debug("watch", "event", event.Op.String(), "file", event.Name)
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			printf(a.stderr, "%s\n", Colorize(fmt.Sprintf("%s changed, running again", path), ColorGray, a.useColor))
			a.runWatched(ctx, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Debug("watch error", "error", err)
		}
	}
}

func (a *app) runWatched(ctx context.Context, path string) {
	if err := a.runScript(ctx, path); err != nil {
		FormatError(a.stderr, err, a.useColor)
	}
}
