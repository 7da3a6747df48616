package lifecycle

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/dshills/soracore/internal/event"
)

// QuitChannel is the catalog name of the quit signal.
const QuitChannel = "host.quit"

// Host coordinates shutdown. Only Shutdown emits the quit signal, so it
// fires at most once.
type Host struct {
	quit *event.Signal

	once     sync.Once
	stopping atomic.Bool
}

// NewHost creates a host. opts configure the quit channel.
func NewHost(opts ...event.Option) *Host {
	return &Host{quit: event.NewSignal(QuitChannel, opts...)}
}

// Register adds l to the quit signal.
func (h *Host) Register(l event.Listener[struct{}]) error {
	return h.quit.Register(l)
}

// Unregister removes l from the quit signal.
func (h *Host) Unregister(l event.Listener[struct{}]) bool {
	return h.quit.Unregister(l)
}

// OnQuit subscribes fn to the quit signal.
func (h *Host) OnQuit(fn func()) *event.Subscription[struct{}] {
	return h.quit.Subscribe(func(struct{}) { fn() })
}

// Shutdown marks the host as shutting down and emits the quit signal. Later
// calls do nothing.
func (h *Host) Shutdown() {
	h.once.Do(func() {
		h.stopping.Store(true)
		h.quit.Emit(struct{}{})
	})
}

// ShuttingDown reports whether Shutdown has been called.
func (h *Host) ShuttingDown() bool {
	return h.stopping.Load()
}

// Emitter returns the catalog view of the quit signal. Emitting through it
// calls Shutdown.
func (h *Host) Emitter() event.Emitter {
	return quitEmitter{h}
}

type quitEmitter struct {
	h *Host
}

func (e quitEmitter) Name() string              { return QuitChannel }
func (e quitEmitter) Len() int                  { return e.h.quit.Len() }
func (e quitEmitter) PayloadType() reflect.Type { return e.h.quit.PayloadType() }

func (e quitEmitter) SubscribeAny(fn func(payload any)) func() bool {
	return e.h.quit.SubscribeAny(fn)
}

func (e quitEmitter) EmitAny(payload any) error {
	if payload != nil {
		if _, ok := payload.(struct{}); !ok {
			return fmt.Errorf("%w: channel %s wants struct {}, got %T", event.ErrPayloadType, QuitChannel, payload)
		}
	}
	e.h.Shutdown()
	return nil
}
