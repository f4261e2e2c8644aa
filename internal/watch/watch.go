// Package watch reruns a callback whenever one of a set of files changes.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when Run is given a non-positive debounce.
const DefaultDebounce = 300 * time.Millisecond

// Run calls fn once, then again after each burst of changes to files, until
// ctx is cancelled. Parent directories are watched so that files replaced by
// editors (rename and create) keep being tracked. Errors returned by fn are
// logged and do not stop the watch.
func Run(ctx context.Context, files []string, debounce time.Duration, logger *zap.Logger, fn func() error) error {
	if len(files) == 0 {
		return errors.New("nothing to watch")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watched := make(map[string]struct{}, len(files))
	dirs := make([]string, 0, len(files))

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}

		watched[abs] = struct{}{}

		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	run := func() {
		if err := fn(); err != nil {
			logger.Warn("rebuild failed", zap.Error(err))
		}
	}

	run()

	logger.Info("watching for changes", zap.Strings("files", files), zap.Duration("debounce", debounce))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C

			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}

		timer.Reset(debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil
		case <-timerC:
			timerC = nil

			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watcher error", zap.Error(err))
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if shouldTrigger(evt, watched) {
				logger.Debug("change detected", zap.String("file", evt.Name), zap.Stringer("op", evt.Op))
				resetTimer()
			}
		}
	}
}

func shouldTrigger(evt fsnotify.Event, watched map[string]struct{}) bool {
	if evt.Name == "" {
		return false
	}

	if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	abs, err := filepath.Abs(evt.Name)
	if err != nil {
		return false
	}

	_, ok := watched[abs]

	return ok
}
