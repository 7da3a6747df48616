package lifecycle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/soracore/internal/event"
)

func TestHost_ShutdownEmitsOnce(t *testing.T) {
	h := NewHost()
	var fired int
	h.OnQuit(func() {
		assert.True(t, h.ShuttingDown(), "flag is set before listeners run")
		fired++
	})

	assert.False(t, h.ShuttingDown())
	h.Shutdown()
	h.Shutdown()

	assert.Equal(t, 1, fired)
	assert.True(t, h.ShuttingDown())
}

func TestHost_ConcurrentShutdown(t *testing.T) {
	h := NewHost()
	var mu sync.Mutex
	fired := 0
	h.OnQuit(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Shutdown()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fired)
}

func TestHost_EmitterShutsDownOnce(t *testing.T) {
	h := NewHost()
	fired := 0
	sub := h.OnQuit(func() { fired++ })

	e := h.Emitter()
	assert.Equal(t, QuitChannel, e.Name())
	assert.Equal(t, 1, e.Len())

	require.NoError(t, e.EmitAny(nil))
	require.NoError(t, e.EmitAny(struct{}{}))
	assert.True(t, h.ShuttingDown())
	assert.Equal(t, 1, fired)

	assert.ErrorIs(t, e.EmitAny("now"), event.ErrPayloadType)
	assert.True(t, sub.Cancel())
	assert.Zero(t, e.Len())
}

func TestHost_RegisterListener(t *testing.T) {
	h := NewHost()
	c := &quitCounter{}
	require.NoError(t, h.Register(c))

	h.Shutdown()
	assert.Equal(t, 1, c.n)
	assert.True(t, h.Unregister(c))
}

type quitCounter struct{ n int }

func (c *quitCounter) OnEvent(struct{}) { c.n++ }
