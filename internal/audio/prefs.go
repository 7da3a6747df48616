package audio

import (
	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
)

// PrefsStore persists numeric preferences. *prefs.Store implements it.
type PrefsStore interface {
	Float(key string) (float64, bool)
	SetFloat(key string, v float64) error
	Save() error
}

// PrefKey returns the preference key holding a group's volume.
func PrefKey(g *MixerGroup) string {
	return "SoundManager_" + g.VolumeParameter
}

// LoadPrefs applies every saved group volume through SetVolume and returns
// how many were restored.
func (m *Manager) LoadPrefs(store PrefsStore, groups []*MixerGroup) int {
	n := 0
	for _, g := range groups {
		if g == nil {
			continue
		}
		if v, ok := store.Float(PrefKey(g)); ok {
			m.SetVolume(g, v)
			n++
		}
	}
	return n
}

// PersistVolume saves every applied volume to store. Cancel the returned
// subscription to stop.
func (m *Manager) PersistVolume(store PrefsStore, sink diag.Sink) *event.Subscription[VolumeChange] {
	report := diag.For(sink, "audio.prefs")
	return m.VolumeChanged.Subscribe(func(c VolumeChange) {
		if c.Group == nil {
			return
		}
		if err := store.SetFloat(PrefKey(c.Group), c.Value); err != nil {
			report.Fault(diag.LevelWarn, "persist volume", err, "group", c.Group.Name)
			return
		}
		if err := store.Save(); err != nil {
			report.Fault(diag.LevelWarn, "save preferences", err)
		}
	})
}
