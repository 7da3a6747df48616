package level

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/soracore/internal/facade"
)

// Loader loads levels for the host.
type Loader interface {
	// Load loads level and calls progress with values in [0, 1] as it goes.
	Load(ctx context.Context, level string, progress func(main, sub float64)) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, level string, progress func(main, sub float64)) error

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, level string, progress func(main, sub float64)) error {
	return f(ctx, level, progress)
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithContext sets the context passed to the Loader.
func WithContext(ctx context.Context) ProviderOption {
	return func(p *Provider) { p.ctx = ctx }
}

// Provider implements level loading on a Loader.
type Provider struct {
	manager *Manager
	loader  Loader
	ctx     context.Context
	loading atomic.Bool
}

// NewProvider creates a provider for m.
func NewProvider(m *Manager, loader Loader, opts ...ProviderOption) *Provider {
	p := &Provider{manager: m, loader: loader, ctx: context.Background()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProviderName implements facade.Provider.
func (p *Provider) ProviderName() string { return "level-manager" }

// Bind implements facade.Provider.
func (p *Provider) Bind(b *facade.Binder) error {
	return facade.Handle(b, p.manager.load, p.load)
}

func (p *Provider) load(req LoadRequest) error {
	if req.Level == "" {
		return ErrEmptyLevel
	}
	if !p.loading.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrLoadInProgress, req.Level)
	}
	defer p.loading.Store(false)

	m := p.manager
	lc := LoadContext{Level: req.Level, ShowLoadingScreen: req.ShowLoadingScreen}
	m.LoadStarted.Emit(lc)

	err := p.loader.Load(p.ctx, req.Level, func(main, sub float64) {
		lc.MainProgress, lc.SubProgress = main, sub
		m.LoadProgressChanged.Emit(lc)
	})
	if err != nil {
		err = fmt.Errorf("level: load %s: %w", req.Level, err)
	} else {
		lc.MainProgress, lc.SubProgress = 1, 1
	}
	lc.Err = err
	m.LoadFinished.Emit(lc)
	return err
}

// StepLoader is a headless Loader that reports Steps evenly spaced progress
// updates, waiting Delay between them.
type StepLoader struct {
	Steps int
	Delay time.Duration
}

// Load implements Loader.
func (l StepLoader) Load(ctx context.Context, _ string, progress func(main, sub float64)) error {
	steps := max(l.Steps, 1)
	for i := 1; i <= steps; i++ {
		if l.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.Delay):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		f := float64(i) / float64(steps)
		progress(f, f)
	}
	return nil
}
