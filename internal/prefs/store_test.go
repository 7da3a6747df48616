package prefs

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetAndGet(t *testing.T) {
	s := NewMemory()

	_, ok := s.Float("MasterVolume")
	assert.False(t, ok)

	require.NoError(t, s.SetFloat("MasterVolume", 0.75))
	require.NoError(t, s.SetFloat("volume.sfx", 0.5))

	v, ok := s.Float("MasterVolume")
	require.True(t, ok)
	assert.Equal(t, 0.75, v)

	v, ok = s.Float("volume.sfx")
	require.True(t, ok, "dotted keys are member names, not paths")
	assert.Equal(t, 0.5, v)

	assert.Equal(t, []string{"MasterVolume", "volume.sfx"}, s.Keys())
	assert.True(t, s.Dirty())

	require.NoError(t, s.Delete("MasterVolume"))
	assert.False(t, s.Has("MasterVolume"))
	assert.NoError(t, s.Save(), "memory stores never write")
}

func TestStore_SaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")

	s, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, s.Keys())

	require.NoError(t, s.SetFloat("MusicVolume", 0.25))
	require.NoError(t, s.Save())
	assert.False(t, s.Dirty())

	again, err := Open(path)
	require.NoError(t, err)
	v, ok := again.Float("MusicVolume")
	require.True(t, ok)
	assert.Equal(t, 0.25, v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSetFloat_RejectsNonFinite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetFloat("MusicVolume", 0.5))

	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.ErrorIs(t, s.SetFloat("MusicVolume", v), ErrNonFinite)
	}
	require.NoError(t, s.Save())

	again, err := Open(path)
	require.NoError(t, err, "the file stays valid JSON")
	got, ok := again.Float("MusicVolume")
	require.True(t, ok)
	assert.Equal(t, 0.5, got)
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, os.WriteFile(path, []byte("[1,2]"), 0o644))
	_, err = Open(path)
	assert.ErrorIs(t, err, ErrCorrupt, "arrays are not a preferences document")
}

func TestFloat_WrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"MasterVolume":"loud"}`), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	_, ok := s.Float("MasterVolume")
	assert.False(t, ok)
	assert.True(t, s.Has("MasterVolume"))
}

func TestStore_ConcurrentWrites(t *testing.T) {
	s := NewMemory()
	keys := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = s.SetFloat(k, float64(i))
				s.Float(k)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, keys, s.Keys())
	for _, k := range keys {
		v, _ := s.Float(k)
		assert.Equal(t, 99.0, v)
	}
}
