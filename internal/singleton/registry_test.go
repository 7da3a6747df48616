package singleton

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
)

type soundManager struct{ id string }

// countingSource wraps a pool and counts scans.
type countingSource struct {
	pool  *Pool[*soundManager]
	scans atomic.Int32
}

func (s *countingSource) Candidates() []Candidate[*soundManager] {
	s.scans.Add(1)
	return s.pool.Candidates()
}

type outcomes struct {
	mu  sync.Mutex
	got []string
}

func (o *outcomes) ObserveResolve(_, outcome string) {
	o.mu.Lock()
	o.got = append(o.got, outcome)
	o.mu.Unlock()
}

func TestRegistry_ResolvesAndCaches(t *testing.T) {
	src := &countingSource{pool: NewPool[*soundManager]()}
	want := &soundManager{id: "a"}
	src.pool.Create(want)
	obs := &outcomes{}
	r := New[*soundManager]("sound", src, WithObserver(obs))

	for i := 0; i < 5; i++ {
		got, ok := r.TryResolve()
		require.True(t, ok)
		assert.Same(t, want, got)
	}

	assert.Equal(t, int32(1), src.scans.Load(), "only the first call scans")
	assert.Equal(t, StateResolved, r.State())
	assert.Equal(t, []string{OutcomeResolved, OutcomeCached, OutcomeCached, OutcomeCached, OutcomeCached}, obs.got)
}

func TestRegistry_NoCandidate(t *testing.T) {
	mem := diag.NewMemory()
	r := New[*soundManager]("sound", NewPool[*soundManager](), WithSink(mem))

	got, ok := r.TryResolve()
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, StateUnresolved, r.State())

	recs := mem.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, diag.LevelError, recs[0].Level)
	assert.ErrorIs(t, recs[0].Err, ErrNoCandidate)
	assert.Equal(t, "sound", recs[0].Source)
}

func TestRegistry_NilSource(t *testing.T) {
	r := New[int]("nothing", nil)
	_, ok := r.TryResolve()
	assert.False(t, ok)
}

func TestRegistry_AmbiguousPicksLowestHandle(t *testing.T) {
	mem := diag.NewMemory()
	pool := NewPool[*soundManager]()
	first := &soundManager{id: "first"}
	h1 := pool.Create(first)
	h2 := pool.Create(&soundManager{id: "second"})
	h3 := pool.Create(&soundManager{id: "third"})
	r := New[*soundManager]("sound", pool, WithSink(mem))

	got, ok := r.TryResolve()
	require.True(t, ok)
	assert.Same(t, first, got)

	recs := mem.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, diag.LevelWarn, recs[0].Level)
	assert.ErrorIs(t, recs[0].Err, ErrAmbiguous)
	assert.Equal(t, h1, recs[0].Fields["chosen"])
	assert.Equal(t, []Handle{h2, h3}, recs[0].Fields["discarded"])

	// Cached: no second warning.
	_, _ = r.TryResolve()
	assert.Equal(t, 1, mem.Len())
}

func TestRegistry_DestroyInvalidatesCache(t *testing.T) {
	pool := NewPool[*soundManager]()
	a := &soundManager{id: "a"}
	ha := pool.Create(a)
	r := New[*soundManager]("sound", pool)

	got, ok := r.TryResolve()
	require.True(t, ok)
	require.Same(t, a, got)

	b := &soundManager{id: "b"}
	pool.Create(b)
	require.True(t, pool.Destroy(ha))
	assert.Equal(t, StateUnresolved, r.State())

	got, ok = r.TryResolve()
	require.True(t, ok)
	assert.Same(t, b, got)

	assert.False(t, pool.Destroy(ha), "destroying twice is a no-op")
}

func TestRegistry_DestroyOtherKeepsCache(t *testing.T) {
	pool := NewPool[*soundManager]()
	a := &soundManager{id: "a"}
	pool.Create(a)
	hb := pool.Create(&soundManager{id: "b"})
	r := New[*soundManager]("sound", pool)

	_, _ = r.TryResolve()
	pool.Destroy(hb)
	assert.Equal(t, StateResolved, r.State())
}

func TestRegistry_ShutdownIsTerminal(t *testing.T) {
	mem := diag.NewMemory()
	src := &countingSource{pool: NewPool[*soundManager]()}
	a := &soundManager{id: "a"}
	src.pool.Create(a)
	r := New[*soundManager]("sound", src, WithSink(mem))

	_, ok := r.TryResolve()
	require.True(t, ok)

	r.Shutdown()
	r.Shutdown()
	assert.Equal(t, StateTerminal, r.State())

	for i := 0; i < 10; i++ {
		got, ok := r.TryResolve()
		assert.False(t, ok)
		assert.Nil(t, got, "never a stale reference")
	}
	assert.Equal(t, int32(1), src.scans.Load(), "terminal registries never scan")
	assert.Zero(t, mem.Count(diag.LevelWarn)+mem.Count(diag.LevelError), "no diagnostic flood during teardown")
}

func TestRegistry_ShutdownFromQuitSignal(t *testing.T) {
	pool := NewPool[int]()
	pool.Create(7)
	r := New[int]("answer", pool)
	quit := event.NewSignal("host.quit")
	require.NoError(t, quit.Register(r))

	quit.Emit(struct{}{})

	_, ok := r.TryResolve()
	assert.False(t, ok)
	assert.Equal(t, StateTerminal, r.State())
}

func TestRegistry_ConcurrentResolveAndDestroy(t *testing.T) {
	pool := NewPool[*soundManager]()
	r := New[*soundManager]("sound", pool)
	workers := runtime.GOMAXPROCS(0) * 4

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if w%2 == 0 {
					h := pool.Create(&soundManager{})
					pool.Destroy(h)
					continue
				}
				if v, ok := r.TryResolve(); ok {
					assert.NotNil(t, v)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Zero(t, pool.Len())
	if r.State() == StateResolved {
		t.Fatal("cache survived the destruction of every candidate")
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "terminal", StateTerminal.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.False(t, errors.Is(ErrTerminal, ErrNoCandidate))
}
