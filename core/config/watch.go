package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is the interval to wait before reloading after a burst of
// file events. Editors commonly write config files in several operations.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the config whenever the file changes on disk, until Close is
// called. Watching a missing file is not an error: the parent directory is
// watched so a later creation is picked up.
func (m *Manager) Watch(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		reload := func() {
			if err := m.Load(); err != nil {
				logger.Warn("config reload failed", "path", m.path, "error", err)
				return
			}
			logger.Info("config reloaded", "path", m.path)
		}

		for {
			select {
			case <-m.stopWatch:
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(m.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watch error", "error", err)
			}
		}
	}()

	return nil
}
