package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/viam-modules/resistive-touch/logging"
	"github.com/viam-modules/resistive-touch/utils"
)

// DefaultWatchDelay is how long a config file must stay unchanged before it is re-read. Editors
// often write a file in several steps.
const DefaultWatchDelay = 200 * time.Millisecond

// A Watcher re-reads a config file whenever it changes and hands every valid result to a callback.
// Invalid files are logged and skipped; the last good config stays in effect.
type Watcher struct {
	path     string
	logger   logging.Logger
	onChange func(*Config)
	watcher  *fsnotify.Watcher
	debounce func(func())
	closed   atomic.Bool
	workers  utils.StoppableWorkers
}

// NewWatcher starts watching filePath. onChange is called from a background goroutine.
func NewWatcher(filePath string, delay time.Duration, logger logging.Logger, onChange func(*Config)) (*Watcher, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so files replaced by rename are still seen.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "watching %q", filePath), fw.Close())
	}
	w := &Watcher{
		path:     absPath,
		logger:   logger,
		onChange: onChange,
		watcher:  fw,
		debounce: debounce.New(delay),
	}
	w.workers = utils.NewStoppableWorkers(w.watch)
	return w, nil
}

func (w *Watcher) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.debounce(w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.CErrorw(ctx, "config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	if w.closed.Load() {
		return
	}
	conf, err := Read(w.path, w.logger)
	if err != nil {
		w.logger.Warnw("ignoring invalid config change", "path", w.path, "error", err)
		return
	}
	w.logger.Infow("config file changed", "path", w.path)
	w.onChange(conf)
}

// Close stops watching. A reload already in progress may still complete.
func (w *Watcher) Close() error {
	w.closed.Store(true)
	w.workers.Stop()
	return w.watcher.Close()
}
