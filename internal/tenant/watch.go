package tenant

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watch subscribes to the configs directory and drops any cached config
// whose file is written, created, removed, or renamed.
func (c *Cache) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(c.opts.Dir); err != nil {
		w.Close()
		return err
	}
	c.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				c.onEvent(ev)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				zap.L().Warn("config watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func (c *Cache) onEvent(ev fsnotify.Event) {
	if filepath.Ext(ev.Name) != ".json" {
		return
	}
	if !ev.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
		return
	}
	key := strings.ToLower(strings.TrimSuffix(filepath.Base(ev.Name), ".json"))
	if c.drop(key, "watch") {
		zap.L().Info("config changed on disk", zap.String("domain", key), zap.String("op", ev.Op.String()))
	}
}
