package diag

import "sync"

// Memory stores records in-memory for tests.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory { return &Memory{} }

// Report implements Sink.
func (m *Memory) Report(r Record) {
	m.mu.Lock()
	m.records = append(m.records, r)
	m.mu.Unlock()
}

// Records returns a copy of everything reported so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Count returns the number of records at exactly level.
func (m *Memory) Count(level Level) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// Len returns the total number of records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Reset drops all records.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.records = nil
	m.mu.Unlock()
}
