package audio

import (
	"errors"
	"fmt"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/facade"
)

// ErrNilGroup is returned by handlers given a request without a group.
var ErrNilGroup = errors.New("audio: nil mixer group")

// Source describes one source for a Backend to start.
type Source struct {
	Clip     string
	Loop     bool
	Settings Settings
	Group    *MixerGroup

	// Position is set for positional sources.
	Position *Vec3
	// Parent is set for attached sources.
	Parent Anchor
}

// Backend owns the actual audio sources and mixer.
type Backend interface {
	// Spawn starts a new one-shot or attached source.
	Spawn(src Source) error
	// PlayMusic replaces what the music source plays.
	PlayMusic(src Source) error
	// SetFloat sets an exposed mixer parameter.
	SetFloat(param string, value float64) error
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithMultiplier sets the decibel multiplier used by Level.
func WithMultiplier(m float64) ProviderOption {
	return func(p *Provider) {
		if m > 0 {
			p.multiplier = m
		}
	}
}

// WithSink sets the sink for volume advisories.
func WithSink(s diag.Sink) ProviderOption {
	return func(p *Provider) { p.report = diag.For(s, p.name) }
}

// Provider implements the audio operations on a Backend.
type Provider struct {
	name       string
	manager    *Manager
	backend    Backend
	multiplier float64
	report     diag.Reporter
}

// NewProvider creates a provider for m. Activate it with
// m.Facade().Activate.
func NewProvider(m *Manager, backend Backend, opts ...ProviderOption) *Provider {
	p := &Provider{
		name:       "sound-manager",
		manager:    m,
		backend:    backend,
		multiplier: DefaultMultiplier,
	}
	p.report = diag.For(nil, p.name)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProviderName implements facade.Provider.
func (p *Provider) ProviderName() string { return p.name }

// Bind implements facade.Provider.
func (p *Provider) Bind(b *facade.Binder) error {
	m := p.manager
	if err := facade.Handle(b, m.playAt, p.playAt); err != nil {
		return err
	}
	if err := facade.Handle(b, m.playAttached, p.playAttached); err != nil {
		return err
	}
	if err := facade.Handle(b, m.playMusic, p.playMusic); err != nil {
		return err
	}
	return facade.Handle(b, m.setVolume, p.setVolume)
}

func (p *Provider) playAt(req PlayAt) error {
	pos := req.Pos
	return p.backend.Spawn(source(req.Cue, req.Settings, req.Group, &pos, ""))
}

func (p *Provider) playAttached(req PlayAttached) error {
	return p.backend.Spawn(source(req.Cue, req.Settings, req.Group, nil, req.Parent))
}

func (p *Provider) playMusic(req PlayMusic) error {
	return p.backend.PlayMusic(source(req.Cue, req.Settings, req.Group, nil, ""))
}

func (p *Provider) setVolume(req SetVolume) error {
	if req.Group == nil {
		return ErrNilGroup
	}
	if req.Value > 1 {
		p.report.Warn("volume above 1, it could be too loud",
			"group", req.Group.Name,
			"value", req.Value,
		)
	}

	level := Level(req.Value, p.multiplier)
	if err := p.backend.SetFloat(req.Group.VolumeParameter, level); err != nil {
		return fmt.Errorf("audio: set %s: %w", req.Group.VolumeParameter, err)
	}
	p.manager.VolumeChanged.Emit(VolumeChange{Group: req.Group, Value: req.Value, Level: level})
	return nil
}

func source(cue Cue, s Settings, g *MixerGroup, pos *Vec3, parent Anchor) Source {
	return Source{
		Clip:     cue.Clip(),
		Loop:     cue.Loop,
		Settings: s,
		Group:    g,
		Position: pos,
		Parent:   parent,
	}
}
