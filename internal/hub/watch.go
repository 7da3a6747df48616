package hub

import (
	"time"

	"github.com/dshills/soracore/internal/config"
	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
)

// Watch reloads the configuration file at path whenever it changes. The log
// level takes effect immediately; other settings are published on the
// config.changed channel for listeners to pick up. The watcher is closed
// with the hub.
func (h *Hub) Watch(path string, debounce time.Duration) (*config.Watcher, error) {
	changed, err := event.Declare[config.Config](h.Catalog, config.ChangedChannel)
	if err != nil {
		return nil, err
	}
	opts := []config.WatcherOption{
		config.WithSink(h.sink),
		config.WithChannel(changed),
	}
	if debounce > 0 {
		opts = append(opts, config.WithDebounce(debounce))
	}
	w, err := config.NewWatcher(path, opts...)
	if err != nil {
		return nil, err
	}

	report := diag.For(h.sink, "hub")
	sub := changed.Subscribe(func(cfg config.Config) {
		h.SetLogLevel(cfg.LogLevel())
		report.Info("configuration reloaded", "path", path, "log_level", cfg.LogLevel().String())
	})
	h.addCleanup(func() {
		sub.Cancel()
		_ = w.Close()
	})
	return w, nil
}
