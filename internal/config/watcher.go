package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
)

// ChangedChannel is the catalog name of the reload channel.
const ChangedChannel = "config.changed"

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*watcherConfig)

type watcherConfig struct {
	debounce time.Duration
	sink     diag.Sink
	channel  *event.Channel[Config]
}

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(c *watcherConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithSink sets the sink that receives reload failures.
func WithSink(s diag.Sink) WatcherOption {
	return func(c *watcherConfig) { c.sink = s }
}

// WithChannel publishes reloads on ch instead of a private channel.
func WithChannel(ch *event.Channel[Config]) WatcherOption {
	return func(c *watcherConfig) { c.channel = ch }
}

// Watcher reloads a config file when it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	report   diag.Reporter
	fsw      *fsnotify.Watcher

	// Changed receives every successfully reloaded and validated config.
	Changed *event.Channel[Config]

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// NewWatcher starts watching path. The parent directory is watched so that
// editors that replace the file on save are still seen.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	cfg := watcherConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.channel == nil {
		cfg.channel = event.NewChannel[Config](ChangedChannel, event.WithSink(cfg.sink))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		debounce: cfg.debounce,
		report:   diag.For(cfg.sink, "config.watcher"),
		fsw:      fsw,
		Changed:  cfg.channel,
		closeCh:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close stops the watcher and waits for the reload loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.wg.Wait()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.report.Fault(diag.LevelWarn, "watch error", err, "path", w.path)

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		w.report.Fault(diag.LevelError, "reload failed, keeping previous config", err, "path", w.path)
		return
	}
	w.report.Info("config reloaded", "path", w.path)
	w.Changed.Emit(cfg)
}
