package hub

import (
	"context"
	"time"

	"github.com/dshills/soracore/internal/audio"
	"github.com/dshills/soracore/internal/level"
	"github.com/dshills/soracore/internal/singleton"
	"github.com/dshills/soracore/internal/ui"
)

// Headless holds the backends used when no engine is attached.
type Headless struct {
	Backends *singleton.Pool[audio.Backend]
	Loading  *ui.HeadlessScreen
	Screens  map[ui.ScreenType]ui.Screen
	Loader   level.Loader
}

// ActivateHeadless activates the audio, UI and level providers on headless
// backends that report to the hub's sink. The audio backend is resolved
// through a singleton registry so a host may replace it by creating its own
// instance in the returned pool before the first call.
func (h *Hub) ActivateHeadless(ctx context.Context) (*Headless, error) {
	hl := &Headless{
		Backends: singleton.NewPool[audio.Backend](),
		Loader:   level.StepLoader{Steps: 4, Delay: 10 * time.Millisecond},
	}
	hl.Screens, hl.Loading = ui.HeadlessScreens(h.sink)
	hl.Backends.Create(audio.NewLogBackend(h.sink))

	backends := Singleton[audio.Backend](h, "audio.backend", hl.Backends)
	backend := audio.Backend(lazyBackend{backends})

	if err := h.Activate(h.Audio.Facade(), audio.NewProvider(h.Audio, backend,
		audio.WithMultiplier(h.cfg.Audio.Multiplier),
		audio.WithSink(h.sink),
	)); err != nil {
		return nil, err
	}
	if err := h.Activate(h.UI.Facade(), ui.NewProvider(h.UI, hl.Screens, hl.Loading)); err != nil {
		return nil, err
	}
	if err := h.Activate(h.Levels.Facade(), level.NewProvider(h.Levels, hl.Loader, level.WithContext(ctx))); err != nil {
		return nil, err
	}
	return hl, nil
}

// lazyBackend resolves the audio backend on every call, so that a destroyed
// backend is replaced by the next live one and teardown never reaches a
// stale instance.
type lazyBackend struct {
	r *singleton.Registry[audio.Backend]
}

func (b lazyBackend) Spawn(src audio.Source) error {
	if be, ok := b.r.TryResolve(); ok {
		return be.Spawn(src)
	}
	return nil
}

func (b lazyBackend) PlayMusic(src audio.Source) error {
	if be, ok := b.r.TryResolve(); ok {
		return be.PlayMusic(src)
	}
	return nil
}

func (b lazyBackend) SetFloat(param string, v float64) error {
	if be, ok := b.r.TryResolve(); ok {
		return be.SetFloat(param, v)
	}
	return nil
}
