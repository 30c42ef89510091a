// Package watcher reloads the engine when catalog files change on disk.
// It only signals; the engine's corpus fingerprint decides whether a
// rebuild actually happens.
package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/beyond-expertise/backend/internal/engine"
)

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher debounces filesystem events into engine reloads.
type Watcher struct {
	engine   *engine.Engine
	logger   *logrus.Entry
	debounce time.Duration
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

func New(eng *engine.Engine, logger *logrus.Entry, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	return &Watcher{
		engine:   eng,
		logger:   logger,
		debounce: debounce,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start watches the given directories and begins dispatching reloads.
// Paths that cannot be watched (e.g. not created yet) are logged and
// skipped.
func (w *Watcher) Start(dirs ...string) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.logger.WithError(err).Warnf("Cannot watch %s", dir)
			continue
		}
		w.logger.Infof("Watching %s", dir)
	}
	go w.run()
}

func (w *Watcher) run() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&relevantOps != 0 {
				w.logger.WithField("file", ev.Name).Debug("Catalog change detected")
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			if err := w.engine.Reload(false); err != nil {
				w.logger.WithError(err).Error("Reload after catalog change failed")
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Watcher error")
		case <-w.done:
			return
		}
	}
}

// Stop terminates the dispatch loop and releases the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsw.Close()
}
