package concurrentset_test

import (
	"runtime"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/soracore/internal/concurrentset"
)

// TestConcurrentMutationAndIteration verifies that primitive operations are
// race-free and that iteration never panics under concurrent mutation.
func TestConcurrentMutationAndIteration(t *testing.T) {
	s := concurrentset.New[int]()
	workers := runtime.GOMAXPROCS(0) * 4

	var wg sync.WaitGroup
	wg.Add(workers * 2)

	// Writers own disjoint ranges, so the final state is known.
	for w := 0; w < workers; w++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				v := base*1000 + i
				s.Add(v)
				if i%2 == 1 {
					s.Remove(v)
				}
			}
		}(w)
	}

	// Readers
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				for v := range s.All() {
					_ = s.Contains(v)
				}
				_ = s.Len()
				_, _ = s.Overlaps(slices.Values([]int{1, 2, 3}))
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, workers*250, s.Len())
	for w := 0; w < workers; w++ {
		assert.True(t, s.Contains(w*1000))
		assert.False(t, s.Contains(w*1000+1))
	}
}

func TestConcurrentAddReportsSingleWinner(t *testing.T) {
	s := concurrentset.New[string]()
	workers := runtime.GOMAXPROCS(0) * 4

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			if s.Add("only") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, s.Len())
}
