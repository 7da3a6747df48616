package ui

import (
	"fmt"

	"github.com/dshills/soracore/internal/facade"
)

// Screen is a host-owned screen controller.
type Screen interface {
	Show(visible bool)
}

// LoadingScreen is a screen with two progress bars.
type LoadingScreen interface {
	Screen
	SetProgress(main, sub float64)
}

// Provider forwards UI requests to screen controllers.
type Provider struct {
	manager *Manager
	screens map[ScreenType]Screen
	loading LoadingScreen
}

// NewProvider creates a provider for m. loading is also used for ScreenLoad.
// Every screen is hidden on construction.
func NewProvider(m *Manager, screens map[ScreenType]Screen, loading LoadingScreen) *Provider {
	p := &Provider{
		manager: m,
		screens: make(map[ScreenType]Screen, len(screens)+1),
		loading: loading,
	}
	for t, s := range screens {
		if s != nil {
			p.screens[t] = s
		}
	}
	if loading != nil {
		p.screens[ScreenLoad] = loading
	}
	for _, s := range p.screens {
		s.Show(false)
	}
	return p
}

// ProviderName implements facade.Provider.
func (p *Provider) ProviderName() string { return "ui-manager" }

// Bind implements facade.Provider.
func (p *Provider) Bind(b *facade.Binder) error {
	if err := facade.Handle(b, p.manager.showScreen, p.show); err != nil {
		return err
	}
	return facade.Handle(b, p.manager.updateProgress, p.progress)
}

func (p *Provider) show(req ShowScreen) error {
	s, ok := p.screens[req.Screen]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScreen, req.Screen)
	}
	s.Show(req.Visible)
	return nil
}

func (p *Provider) progress(req LoadProgress) error {
	if p.loading == nil {
		return fmt.Errorf("%w: %s", ErrUnknownScreen, ScreenLoad)
	}
	p.loading.SetProgress(clamp01(req.Main), clamp01(req.Sub))
	return nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
