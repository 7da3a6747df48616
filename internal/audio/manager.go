package audio

import (
	"github.com/dshills/soracore/internal/event"
	"github.com/dshills/soracore/internal/facade"
)

// Operation and channel names.
const (
	FacadeName           = "audio"
	OpPlayAt             = "audio.play_at"
	OpPlayAttached       = "audio.play_attached"
	OpPlayMusic          = "audio.play_music"
	OpSetVolume          = "audio.set_volume"
	VolumeChangedChannel = "audio.volume_changed"
)

// Manager is the caller-side surface of the audio facility.
type Manager struct {
	facade       *facade.Facade
	playAt       *facade.Slot[PlayAt]
	playAttached *facade.Slot[PlayAttached]
	playMusic    *facade.Slot[PlayMusic]
	setVolume    *facade.Slot[SetVolume]

	// VolumeChanged is raised by the provider after a volume is applied.
	VolumeChanged *event.Channel[VolumeChange]
}

// NewManager adds the audio operations to f. changed may be nil, in which
// case a private channel is created.
func NewManager(f *facade.Facade, changed *event.Channel[VolumeChange]) *Manager {
	if changed == nil {
		changed = event.NewChannel[VolumeChange](VolumeChangedChannel)
	}
	return &Manager{
		facade:        f,
		playAt:        facade.NewSlot[PlayAt](f, OpPlayAt),
		playAttached:  facade.NewSlot[PlayAttached](f, OpPlayAttached),
		playMusic:     facade.NewSlot[PlayMusic](f, OpPlayMusic, facade.WithPolicy(facade.PolicyLatest)),
		setVolume:     facade.NewSlot[SetVolume](f, OpSetVolume),
		VolumeChanged: changed,
	}
}

// Facade returns the underlying facade.
func (m *Manager) Facade() *facade.Facade { return m.facade }

// Play plays cue at pos with the cue's own settings and group.
func (m *Manager) Play(cue Cue, pos Vec3) {
	m.PlayWith(cue, pos, cue.Settings, cue.Group)
}

// PlayWith plays cue at pos with explicit settings and group.
func (m *Manager) PlayWith(cue Cue, pos Vec3, s Settings, g *MixerGroup) {
	m.playAt.Invoke(PlayAt{Cue: cue, Pos: pos, Settings: s, Group: g})
}

// PlayAttached plays cue on a source parented to parent.
func (m *Manager) PlayAttached(cue Cue, parent Anchor) {
	m.PlayAttachedWith(cue, parent, cue.Settings, cue.Group)
}

// PlayAttachedWith is PlayAttached with explicit settings and group.
func (m *Manager) PlayAttachedWith(cue Cue, parent Anchor, s Settings, g *MixerGroup) {
	m.playAttached.Invoke(PlayAttached{Cue: cue, Parent: parent, Settings: s, Group: g})
}

// PlayMusic plays cue on the music source.
func (m *Manager) PlayMusic(cue Cue) {
	m.PlayMusicWith(cue, cue.Settings, cue.Group)
}

// PlayMusicWith is PlayMusic with explicit settings and group.
func (m *Manager) PlayMusicWith(cue Cue, s Settings, g *MixerGroup) {
	m.playMusic.Invoke(PlayMusic{Cue: cue, Settings: s, Group: g})
}

// SetVolume sets the linear volume of group.
func (m *Manager) SetVolume(group *MixerGroup, value float64) {
	m.setVolume.Invoke(SetVolume{Group: group, Value: value})
}
