package prefs

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	// ErrCorrupt is returned when the preferences file is not a JSON object.
	ErrCorrupt = errors.New("prefs: corrupt preferences file")
	// ErrNonFinite is returned for NaN and infinite values, which JSON
	// cannot hold.
	ErrNonFinite = errors.New("prefs: value is not finite")
)

// Store is a key/value document backed by an optional file. It is safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	path  string
	doc   string
	dirty bool
}

// NewMemory creates a store that is never written to disk.
func NewMemory() *Store {
	return &Store{doc: "{}"}
}

// Open loads path. A missing file yields an empty store that Save creates.
func Open(path string) (*Store, error) {
	s := &Store{path: path, doc: "{}"}
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("prefs: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return s, nil
	}
	if !gjson.ValidBytes(b) || !gjson.ParseBytes(b).IsObject() {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, path)
	}
	s.doc = string(b)
	return s, nil
}

// Path returns the backing file, or "" for a memory store.
func (s *Store) Path() string { return s.path }

// SetFloat stores v under key.
func (s *Store) SetFloat(key string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %v", ErrNonFinite, key, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.Set(s.doc, escape(key), v)
	if err != nil {
		return fmt.Errorf("prefs: set %s: %w", key, err)
	}
	s.doc = doc
	s.dirty = true
	return nil
}

// Float returns the number stored under key.
func (s *Store) Float(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := gjson.Get(s.doc, escape(key))
	if r.Type != gjson.Number {
		return 0, false
	}
	return r.Float(), true
}

// Has reports whether key is set.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.doc, escape(key)).Exists()
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := sjson.Delete(s.doc, escape(key))
	if err != nil {
		return fmt.Errorf("prefs: delete %s: %w", key, err)
	}
	s.doc = doc
	s.dirty = true
	return nil
}

// Keys returns every top-level key, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	gjson.Parse(s.doc).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	sort.Strings(keys)
	return keys
}

// Dirty reports whether there are unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Save writes the document if it changed. The file is replaced atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" || !s.dirty {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.json")
	if err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(s.doc); err != nil {
		tmp.Close()
		return fmt.Errorf("prefs: save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	s.dirty = false
	return nil
}

// escape quotes gjson path syntax so a key is always a single member name.
func escape(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
