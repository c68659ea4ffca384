package actions

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

var reloadDebounce = 150 * time.Millisecond

// Watcher reloads the action file into a State whenever it changes on disk.
// A file that fails to load leaves the previous table in place.
type Watcher struct {
	path   string
	state  *State
	logger *slog.Logger
	last   Config
}

// NewWatcher builds a watcher for path. initial is the configuration that was
// read from the file at startup and is used to notice session id or port
// edits that cannot take effect without a restart.
func NewWatcher(path string, state *State, initial Config, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: path, state: state, logger: logger, last: initial}
}

// Run watches the directory holding the file, so editors that save through a
// rename are picked up, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			timerCh = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "err", err)
		case <-timerCh:
			timerCh = nil
			w.Reload()
		}
	}
}

// Reload reads the file once and publishes it when it is valid.
func (w *Watcher) Reload() bool {
	next, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous actions", "path", w.path, "err", err)
		return false
	}
	if next.SessionID != w.last.SessionID || next.Port != w.last.Port {
		w.logger.Warn("session_id and port changes need a restart", "path", w.path)
	}
	w.last = next
	w.state.Replace(next)
	w.logger.Info("config reloaded", "path", w.path, "actions", len(next.Actions))
	return true
}
