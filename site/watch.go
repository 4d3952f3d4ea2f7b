package site

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/ancientlore/inkwell/store"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads the store when files change in the watched directories.
type Watcher struct {
	Dirs     []string
	Reloader *store.Reloader
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches until ctx is done. A reload that lands inside the throttle
// window is retried once the window has passed, so the last change is
// never lost.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer fw.Close()

	watched := 0
	for _, dir := range w.Dirs {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("not watching directory", "dir", dir, "err", err)
			continue
		}
		if err := fw.Add(dir); err != nil {
			logger.Warn("failed to watch directory", "dir", dir, "err", err)
			continue
		}
		logger.Info("watching directory", "dir", dir)
		watched++
	}
	if watched == 0 {
		return errors.New("no directories to watch")
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
				timer.Reset(debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-timer.C:
			outcome, err := w.Reloader.Reload(ctx)
			switch {
			case err != nil && ctx.Err() != nil:
				return nil
			case err != nil:
				logger.Error("reload failed", "err", err)
			case outcome == store.Throttled:
				wait := time.Until(w.Reloader.Next())
				logger.Debug("reload throttled, retrying", "in", wait)
				timer.Reset(max(wait, debounce))
			default:
				logger.Info("posts reloaded after change")
			}
		}
	}
}
