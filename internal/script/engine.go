package script

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/event"
)

// DefaultTimeout bounds a single chunk or listener call.
const DefaultTimeout = 5 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the diagnostic sink for sora.log, print and listener faults.
func WithSink(s diag.Sink) Option {
	return func(e *Engine) { e.report = diag.For(s, "script") }
}

// WithTimeout bounds each chunk and listener call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// delivery is a queued listener call.
type delivery struct {
	id      string
	channel string
	fn      *lua.LFunction
	payload any
}

// Engine runs Lua scripts against an event catalog.
type Engine struct {
	catalog *event.Catalog
	report  diag.Reporter
	timeout time.Duration

	// mu owns L, subs and closed.
	mu     sync.Mutex
	L      *lua.LState
	subs   map[string]func() bool
	closed bool

	qmu   sync.Mutex
	queue []delivery
}

// New creates an engine bound to catalog.
func New(catalog *event.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		report:  diag.For(nil, "script"),
		timeout: DefaultTimeout,
		subs:    make(map[string]func() bool),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(e.L)
	e.installAPI()
	return e
}

// openSafeLibraries opens only the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString runs a chunk.
func (e *Engine) DoString(code string) error {
	return e.run(func(L *lua.LState) error { return L.DoString(code) })
}

// DoFile runs a file.
func (e *Engine) DoFile(path string) error {
	return e.run(func(L *lua.LState) error { return L.DoFile(path) })
}

// Subscriptions returns the number of live Lua subscriptions.
func (e *Engine) Subscriptions() int {
	e.mu.Lock()
	defer e.unlock()
	return len(e.subs)
}

// Close cancels every subscription and closes the Lua state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for id, cancel := range e.subs {
		cancel()
		delete(e.subs, id)
	}
	e.qmu.Lock()
	e.queue = nil
	e.qmu.Unlock()
	e.L.Close()
}

func (e *Engine) run(fn func(L *lua.LState) error) error {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return ErrClosed
	}
	return e.protect(fn)
}

// protect runs fn under the call timeout and turns panics into errors.
// Callers hold mu.
func (e *Engine) protect(fn func(L *lua.LState) error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script: lua panic: %v", r)
		}
	}()
	return fn(e.L)
}

// deliver calls a Lua listener now if the engine is idle, or queues it.
func (e *Engine) deliver(d delivery) {
	if e.mu.TryLock() {
		e.invoke(d)
		e.unlock()
		return
	}
	e.qmu.Lock()
	e.queue = append(e.queue, d)
	e.qmu.Unlock()

	// The holder may have drained and released in the meantime.
	if e.mu.TryLock() {
		e.unlock()
	}
}

// unlock drains queued deliveries and releases mu. A delivery queued after
// the last drain is picked up by whoever acquires mu next.
func (e *Engine) unlock() {
	for {
		for {
			d, ok := e.pop()
			if !ok {
				break
			}
			e.invoke(d)
		}
		e.mu.Unlock()
		if e.pending() == 0 || !e.mu.TryLock() {
			return
		}
	}
}

func (e *Engine) pop() (delivery, bool) {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	if len(e.queue) == 0 {
		return delivery{}, false
	}
	d := e.queue[0]
	e.queue = e.queue[1:]
	return d, true
}

func (e *Engine) pending() int {
	e.qmu.Lock()
	defer e.qmu.Unlock()
	return len(e.queue)
}

// invoke calls a listener. Callers hold mu.
func (e *Engine) invoke(d delivery) {
	if e.closed {
		return
	}
	if _, live := e.subs[d.id]; !live {
		return
	}
	err := e.protect(func(L *lua.LState) error {
		return L.CallByParam(lua.P{Fn: d.fn, NRet: 0, Protect: true}, toLua(L, d.payload))
	})
	if err != nil {
		e.report.Fault(diag.LevelError, "lua listener failed", fmt.Errorf("%w: %w", ErrListenerFailed, err),
			"channel", d.channel,
			"subscription", d.id,
		)
	}
}

func (e *Engine) installAPI() {
	L := e.L
	sora := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"on":       e.luaOn,
		"off":      e.luaOff,
		"emit":     e.luaEmit,
		"log":      e.luaLog,
		"channels": e.luaChannels,
	})
	L.SetGlobal("sora", sora)
	L.SetGlobal("print", L.NewFunction(e.luaPrint))
}

// sora.on(channel, fn) -> id
func (e *Engine) luaOn(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	em, ok := e.catalog.Lookup(name)
	if !ok {
		L.RaiseError("%s: %s", ErrUnknownChannel, name)
		return 0
	}
	id := uuid.NewString()
	e.subs[id] = em.SubscribeAny(func(payload any) {
		e.deliver(delivery{id: id, channel: name, fn: fn, payload: payload})
	})
	L.Push(lua.LString(id))
	return 1
}

// sora.off(id) -> bool
func (e *Engine) luaOff(L *lua.LState) int {
	id := L.CheckString(1)
	cancel, ok := e.subs[id]
	if ok {
		delete(e.subs, id)
		cancel()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// sora.emit(channel, value)
func (e *Engine) luaEmit(L *lua.LState) int {
	name := L.CheckString(1)
	em, ok := e.catalog.Lookup(name)
	if !ok {
		L.RaiseError("%s: %s", ErrUnknownChannel, name)
		return 0
	}
	payload, err := convert(fromLua(L.Get(2)), em.PayloadType())
	if err == nil {
		err = em.EmitAny(payload)
	}
	if err != nil {
		L.RaiseError("sora.emit %s: %s", name, err)
	}
	return 0
}

// sora.log(level, msg)
func (e *Engine) luaLog(L *lua.LState) int {
	level, err := diag.ParseLevel(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	e.report.Fault(level, L.CheckString(2), nil)
	return 0
}

// print(...) logs its arguments at info level.
func (e *Engine) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.report.Info(strings.Join(parts, "\t"))
	return 0
}

// sora.channels() -> {name, ...}
func (e *Engine) luaChannels(L *lua.LState) int {
	names := e.catalog.Names()
	sort.Strings(names)
	t := L.CreateTable(len(names), 0)
	for _, n := range names {
		t.Append(lua.LString(n))
	}
	L.Push(t)
	return 1
}
