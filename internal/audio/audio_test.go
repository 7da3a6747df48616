package audio

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
	"github.com/dshills/soracore/internal/facade"
	"github.com/dshills/soracore/internal/prefs"
)

type fakeBackend struct {
	mu     sync.Mutex
	spawns []Source
	music  []Source
	params map[string]float64
	err    error
}

func (b *fakeBackend) Spawn(src Source) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.spawns = append(b.spawns, src)
	return b.err
}

func (b *fakeBackend) PlayMusic(src Source) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.music = append(b.music, src)
	return b.err
}

func (b *fakeBackend) SetFloat(param string, v float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	if b.params == nil {
		b.params = map[string]float64{}
	}
	b.params[param] = v
	return nil
}

var music = &MixerGroup{Name: "music", VolumeParameter: "MusicVolume"}

func newActive(t *testing.T, mem *diag.Memory) (*Manager, *fakeBackend) {
	t.Helper()
	m := NewManager(facade.New(FacadeName, facade.WithSink(mem)), nil)
	backend := &fakeBackend{}
	require.NoError(t, m.Facade().Activate(NewProvider(m, backend, WithSink(mem))))
	return m, backend
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 0.0, Level(1, DefaultMultiplier))
	assert.InDelta(t, -120.0, Level(0, DefaultMultiplier), 1e-9)
	assert.InDelta(t, -120.0, Level(-5, DefaultMultiplier), 1e-9)
	assert.InDelta(t, -120.0, Level(math.NaN(), DefaultMultiplier), 1e-9)
	assert.InDelta(t, -120.0, Level(math.Inf(1), DefaultMultiplier), 1e-9)
	assert.InDelta(t, -120.0, Level(math.Inf(-1), DefaultMultiplier), 1e-9)
	assert.InDelta(t, 30*math.Log10(1.5), Level(1.5, DefaultMultiplier), 1e-9)
	assert.InDelta(t, -20.0, Level(0.1, 20), 1e-9)
	assert.False(t, math.IsInf(Level(0, DefaultMultiplier), 0))
}

func TestSetVolume_TooLoudWarnsOnce(t *testing.T) {
	mem := diag.NewMemory()
	m, backend := newActive(t, mem)
	var changes []VolumeChange
	m.VolumeChanged.Subscribe(func(c VolumeChange) { changes = append(changes, c) })

	m.SetVolume(music, 1.5)

	assert.Equal(t, 1, mem.Count(diag.LevelWarn))
	assert.InDelta(t, Level(1.5, DefaultMultiplier), backend.params["MusicVolume"], 1e-9, "loud values are applied")
	require.Len(t, changes, 1)
	assert.Equal(t, 1.5, changes[0].Value)

	m.SetVolume(music, 0.5)
	assert.Equal(t, 1, mem.Count(diag.LevelWarn), "normal values are silent")
}

func TestSetVolume_Zero(t *testing.T) {
	mem := diag.NewMemory()
	m, backend := newActive(t, mem)

	m.SetVolume(music, 0)
	assert.InDelta(t, -120.0, backend.params["MusicVolume"], 1e-9)
	assert.Zero(t, mem.Count(diag.LevelWarn))
}

func TestSetVolume_NilGroupIsDiagnostic(t *testing.T) {
	mem := diag.NewMemory()
	m, _ := newActive(t, mem)
	var changed bool
	m.VolumeChanged.Subscribe(func(VolumeChange) { changed = true })

	m.SetVolume(nil, 0.5)

	assert.False(t, changed)
	recs := mem.Records()
	require.NotEmpty(t, recs)
	assert.ErrorIs(t, recs[len(recs)-1].Err, ErrNilGroup)
}

func TestManager_NoProvider(t *testing.T) {
	mem := diag.NewMemory()
	m := NewManager(facade.New(FacadeName, facade.WithSink(mem)), event.NewChannel[VolumeChange](VolumeChangedChannel))

	m.Play(Cue{Name: "door"}, Vec3{})
	m.SetVolume(music, 0.5)

	require.Equal(t, 2, mem.Count(diag.LevelWarn))
	recs := mem.Records()
	assert.Equal(t, OpPlayAt, recs[0].Fields["op"])
	assert.Equal(t, OpSetVolume, recs[1].Fields["op"])
}

func TestProvider_Play(t *testing.T) {
	mem := diag.NewMemory()
	m, backend := newActive(t, mem)
	sfx := &MixerGroup{Name: "sfx", VolumeParameter: "SfxVolume"}
	cue := Cue{Name: "door", Clips: []string{"door.wav"}, Settings: DefaultSettings(), Group: sfx}

	m.Play(cue, Vec3{X: 1, Y: 2, Z: 3})
	m.PlayAttached(cue, "player")
	quiet := Settings{Volume: 0.2}
	m.PlayWith(cue, Vec3{}, quiet, music)
	m.PlayMusic(Cue{Name: "theme", Clips: []string{"theme.ogg"}, Loop: true, Group: music})

	require.Len(t, backend.spawns, 3)
	assert.Equal(t, "door.wav", backend.spawns[0].Clip)
	assert.Equal(t, &Vec3{X: 1, Y: 2, Z: 3}, backend.spawns[0].Position)
	assert.Same(t, sfx, backend.spawns[0].Group)
	assert.Equal(t, Anchor("player"), backend.spawns[1].Parent)
	assert.Nil(t, backend.spawns[1].Position)
	assert.Equal(t, quiet, backend.spawns[2].Settings)
	assert.Same(t, music, backend.spawns[2].Group)

	require.Len(t, backend.music, 1)
	assert.True(t, backend.music[0].Loop)
	assert.Equal(t, "theme.ogg", backend.music[0].Clip)
}

func TestProvider_BackendErrorIsDiagnostic(t *testing.T) {
	mem := diag.NewMemory()
	m, backend := newActive(t, mem)
	backend.err = errors.New("no device")

	assert.NotPanics(t, func() { m.SetVolume(music, 0.5) })
	recs := mem.Records()
	require.NotEmpty(t, recs)
	assert.ErrorIs(t, recs[len(recs)-1].Err, backend.err)
}

func TestPrefs_RoundTrip(t *testing.T) {
	store := prefs.NewMemory()
	m, backend := newActive(t, diag.NewMemory())
	sub := m.PersistVolume(store, nil)

	m.SetVolume(music, 0.25)
	v, ok := store.Float(PrefKey(music))
	require.True(t, ok)
	assert.Equal(t, 0.25, v)
	sub.Cancel()

	// A fresh manager restores the saved volume.
	m2, backend2 := newActive(t, diag.NewMemory())
	sfx := &MixerGroup{Name: "sfx", VolumeParameter: "SfxVolume"}
	n := m2.LoadPrefs(store, []*MixerGroup{music, sfx, nil})

	assert.Equal(t, 1, n)
	assert.Equal(t, backend.params["MusicVolume"], backend2.params["MusicVolume"])
	assert.NotContains(t, backend2.params, "SfxVolume")
}

func TestPersistVolume_SkipsNonFinite(t *testing.T) {
	store := prefs.NewMemory()
	mem := diag.NewMemory()
	m, backend := newActive(t, mem)
	sub := m.PersistVolume(store, mem)
	defer sub.Cancel()

	m.SetVolume(music, 0.5)
	for _, v := range []float64{math.Inf(1), math.NaN()} {
		m.SetVolume(music, v)
		assert.InDelta(t, -120.0, backend.params["MusicVolume"], 1e-9, "applied as silence")
	}

	saved, ok := store.Float(PrefKey(music))
	require.True(t, ok)
	assert.Equal(t, 0.5, saved, "the last finite volume is kept")

	var faults int
	for _, r := range mem.Records() {
		if r.Source == "audio.prefs" && errors.Is(r.Err, prefs.ErrNonFinite) {
			faults++
		}
	}
	assert.Equal(t, 2, faults)
}

func TestGroupsFromNames(t *testing.T) {
	groups := GroupsFromNames([]string{"master", "", "sfx"})
	require.Len(t, groups, 2)
	assert.Equal(t, "MasterVolume", groups[0].VolumeParameter)
	assert.Equal(t, "SfxVolume", groups[1].VolumeParameter)
}

func TestCue_Clip(t *testing.T) {
	assert.Empty(t, Cue{}.Clip())
	c := Cue{Clips: []string{"a", "b"}}
	for i := 0; i < 20; i++ {
		assert.Contains(t, c.Clips, c.Clip())
	}
}

func TestLogBackend(t *testing.T) {
	mem := diag.NewMemory()
	b := NewLogBackend(mem)
	pos := Vec3{X: 1}
	require.NoError(t, b.Spawn(Source{Clip: "a", Position: &pos, Parent: "p", Group: music}))
	require.NoError(t, b.PlayMusic(Source{Clip: "m"}))
	require.NoError(t, b.SetFloat("MusicVolume", -3))
	assert.Equal(t, 3, mem.Count(diag.LevelDebug))
}
