package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/soracore/internal/audio"
	"github.com/dshills/soracore/internal/config"
	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
	"github.com/dshills/soracore/internal/facade"
	"github.com/dshills/soracore/internal/level"
	"github.com/dshills/soracore/internal/lifecycle"
	"github.com/dshills/soracore/internal/metrics"
	"github.com/dshills/soracore/internal/prefs"
	"github.com/dshills/soracore/internal/script"
	"github.com/dshills/soracore/internal/singleton"
	"github.com/dshills/soracore/internal/ui"
)

// Option configures a Hub.
type Option func(*options)

type options struct {
	sink     diag.Sink
	registry *prometheus.Registry
	prefs    *prefs.Store
}

// WithSink sets the sink diagnostics end up in, typically diag.NewZerolog.
func WithSink(s diag.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithRegistry sets the Prometheus registry. The default is a fresh one.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithPrefs uses store instead of opening cfg.Prefs.Path.
func WithPrefs(store *prefs.Store) Option {
	return func(o *options) { o.prefs = store }
}

// Hub is the runtime's dispatch registry.
type Hub struct {
	cfg      config.Config
	gate     *diag.Gate
	sink     diag.Sink
	registry *prometheus.Registry
	metrics  *metrics.Collector

	// Host owns the quit signal.
	Host *lifecycle.Host
	// Catalog holds every named channel.
	Catalog *event.Catalog
	// Prefs persists player preferences.
	Prefs *prefs.Store
	// Scripts runs Lua listeners.
	Scripts *script.Engine

	Audio  *audio.Manager
	UI     *ui.Manager
	Levels *level.Manager

	groups  []*audio.MixerGroup
	facades []*facade.Facade

	mu        sync.Mutex
	providers []activation
	cleanup   []func()
	booted    bool
	closeOnce sync.Once
	closeErr  error
}

type activation struct {
	facade   *facade.Facade
	provider facade.Provider
}

// New builds a hub from cfg. cfg must be valid.
func New(cfg config.Config, opts ...Option) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	if o.prefs == nil {
		store, err := prefs.Open(cfg.Prefs.Path)
		if err != nil {
			return nil, err
		}
		o.prefs = store
	}

	collector := metrics.New(o.registry)
	gate := diag.NewGate(o.sink, cfg.LogLevel())
	sink := collector.Sink(gate)

	eventOpts := []event.Option{
		event.WithSink(sink),
		event.WithObserver(collector),
		event.WithIsolation(cfg.Events.Isolate),
	}
	catalog := event.NewCatalog(eventOpts...)
	host := lifecycle.NewHost(eventOpts...)
	if err := catalog.Add(host.Emitter()); err != nil {
		return nil, err
	}

	facadeOpts := []facade.Option{
		facade.WithSink(sink),
		facade.WithObserver(collector),
		facade.WithPolicies(cfg.FacadePolicies()),
	}
	audioFacade := facade.New(audio.FacadeName, facadeOpts...)
	uiFacade := facade.New(ui.FacadeName, facadeOpts...)
	levelFacade := facade.New(level.FacadeName, facadeOpts...)

	h := &Hub{
		cfg:      cfg,
		gate:     gate,
		sink:     sink,
		registry: o.registry,
		metrics:  collector,
		Host:     host,
		Catalog:  catalog,
		Prefs:    o.prefs,
		Scripts:  script.New(catalog, script.WithSink(sink)),
		Audio: audio.NewManager(audioFacade,
			event.MustDeclare[audio.VolumeChange](catalog, audio.VolumeChangedChannel)),
		UI: ui.NewManager(uiFacade),
		Levels: level.NewManager(levelFacade, level.Channels{
			Started:  event.MustDeclare[level.LoadContext](catalog, level.LoadStartedChannel),
			Progress: event.MustDeclare[level.LoadContext](catalog, level.LoadProgressChannel),
			Finished: event.MustDeclare[level.LoadContext](catalog, level.LoadFinishedChannel),
		}),
		groups:  audio.GroupsFromNames(cfg.Audio.Groups),
		facades: []*facade.Facade{audioFacade, uiFacade, levelFacade},
	}
	return h, nil
}

// Config returns the configuration the hub was built with.
func (h *Hub) Config() config.Config { return h.cfg }

// Sink returns the hub's diagnostic sink. Reports are counted in metrics and
// filtered by the configured log level.
func (h *Hub) Sink() diag.Sink { return h.sink }

// Metrics returns the metrics collector.
func (h *Hub) Metrics() *metrics.Collector { return h.metrics }

// Registry returns the Prometheus registry holding the hub's metrics.
func (h *Hub) Registry() *prometheus.Registry { return h.registry }

// Facades returns the hub's facades.
func (h *Hub) Facades() []*facade.Facade {
	return append([]*facade.Facade(nil), h.facades...)
}

// Groups returns the configured mixer groups.
func (h *Hub) Groups() []*audio.MixerGroup {
	return append([]*audio.MixerGroup(nil), h.groups...)
}

// Group returns the mixer group called name.
func (h *Hub) Group(name string) (*audio.MixerGroup, bool) {
	for _, g := range h.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// SetLogLevel changes the minimum reported level.
func (h *Hub) SetLogLevel(l diag.Level) { h.gate.SetLevel(l) }

// LogLevel returns the minimum reported level.
func (h *Hub) LogLevel() diag.Level { return h.gate.Level() }

// Activate activates p on f and deactivates it on Close.
func (h *Hub) Activate(f *facade.Facade, p facade.Provider) error {
	if err := f.Activate(p); err != nil {
		return err
	}
	h.mu.Lock()
	h.providers = append(h.providers, activation{facade: f, provider: p})
	h.mu.Unlock()
	return nil
}

// Singleton creates a registry over pool that shuts down with the host.
func Singleton[T any](h *Hub, name string, pool singleton.Source[T]) *singleton.Registry[T] {
	r := singleton.New[T](name, pool,
		singleton.WithSink(h.sink),
		singleton.WithObserver(h.metrics),
	)
	// A registry is a comparable pointer, so Register cannot fail.
	_ = h.Host.Register(r)
	return r
}

// Boot runs the start-up sequence: restore saved volumes, persist future
// changes, hook the loading screen, run the configured scripts and load the
// start level.
func (h *Hub) Boot(ctx context.Context) error {
	h.mu.Lock()
	if h.booted {
		h.mu.Unlock()
		return errors.New("hub: already booted")
	}
	h.booted = true
	h.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	report := diag.For(h.sink, "hub")

	restored := h.Audio.LoadPrefs(h.Prefs, h.groups)
	persist := h.Audio.PersistVolume(h.Prefs, h.sink)
	unhook := level.HookLoadingScreen(h.Levels, h.UI)
	h.addCleanup(func() { persist.Cancel() })
	h.addCleanup(unhook)
	report.Info("preferences restored", "volumes", restored)

	for _, path := range h.cfg.Scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.Scripts.DoFile(path); err != nil {
			return fmt.Errorf("hub: script %s: %w", path, err)
		}
		report.Info("script loaded", "path", path)
	}

	if start := h.cfg.Level.Start; start != "" {
		h.Levels.Load(start, h.cfg.Level.ShowLoadingScreen)
	}
	return nil
}

// Close shuts the host down, deactivates providers, stops scripts and saves
// preferences. It is safe to call more than once.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		h.Host.Shutdown()

		h.mu.Lock()
		providers := h.providers
		cleanup := h.cleanup
		h.providers, h.cleanup = nil, nil
		h.mu.Unlock()

		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		h.Scripts.Close()
		for i := len(providers) - 1; i >= 0; i-- {
			providers[i].facade.Deactivate(providers[i].provider)
		}
		h.closeErr = h.Prefs.Save()
	})
	return h.closeErr
}

func (h *Hub) addCleanup(fn func()) {
	h.mu.Lock()
	h.cleanup = append(h.cleanup, fn)
	h.mu.Unlock()
}
