package audio

import (
	"math/rand/v2"
	"strings"
)

// Vec3 is a world position.
type Vec3 struct {
	X, Y, Z float64
}

// Anchor identifies a host transform a source can be attached to.
type Anchor string

// Settings configures a playing source.
type Settings struct {
	Volume       float64 `json:"volume"`
	Pitch        float64 `json:"pitch"`
	SpatialBlend float64 `json:"spatial_blend"`
	Priority     int     `json:"priority"`
}

// DefaultSettings returns full-volume, unpitched, 2D settings.
func DefaultSettings() Settings {
	return Settings{Volume: 1, Pitch: 1, Priority: 128}
}

// MixerGroup is a mixer bus with an exposed volume parameter.
type MixerGroup struct {
	Name            string `json:"name"`
	VolumeParameter string `json:"volume_parameter"`
}

// GroupsFromNames builds mixer groups whose volume parameter is the name
// followed by "Volume", e.g. "music" → "MusicVolume".
func GroupsFromNames(names []string) []*MixerGroup {
	groups := make([]*MixerGroup, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		groups = append(groups, &MixerGroup{
			Name:            n,
			VolumeParameter: strings.ToUpper(n[:1]) + n[1:] + "Volume",
		})
	}
	return groups
}

// Cue is a playable sound: one or more interchangeable clips plus the
// settings and group used when none are given.
type Cue struct {
	Name     string
	Clips    []string
	Loop     bool
	Settings Settings
	Group    *MixerGroup
}

// Clip picks one of the cue's clips at random. It returns "" for a cue
// without clips.
func (c Cue) Clip() string {
	switch len(c.Clips) {
	case 0:
		return ""
	case 1:
		return c.Clips[0]
	default:
		return c.Clips[rand.IntN(len(c.Clips))]
	}
}

// PlayAt requests a one-shot source at a position.
type PlayAt struct {
	Cue      Cue
	Pos      Vec3
	Settings Settings
	Group    *MixerGroup
}

// PlayAttached requests a source parented to an anchor.
type PlayAttached struct {
	Cue      Cue
	Parent   Anchor
	Settings Settings
	Group    *MixerGroup
}

// PlayMusic requests the music source to play a cue.
type PlayMusic struct {
	Cue      Cue
	Settings Settings
	Group    *MixerGroup
}

// SetVolume requests a mixer group volume change.
type SetVolume struct {
	Group *MixerGroup
	Value float64
}

// VolumeChange is emitted after a volume has been applied.
type VolumeChange struct {
	Group *MixerGroup
	// Value is the requested linear value.
	Value float64
	// Level is the applied mixer level in decibels.
	Level float64
}
