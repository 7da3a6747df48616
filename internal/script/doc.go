// Package script runs Lua scripts that listen to and emit on catalog
// channels.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. The global table "sora" exposes:
//
//	sora.on(channel, fn)    -- subscribe fn, returns a subscription id
//	sora.off(id)            -- cancel a subscription, returns true if it existed
//	sora.emit(channel, v)   -- emit v (nil emits the zero payload)
//	sora.log(level, msg)    -- report a diagnostic
//	sora.channels()         -- list channel names
//
// print is redirected to sora.log at info level.
//
// # Concurrency
//
// A Lua state runs one call at a time. A Lua listener is called directly
// when the engine is idle. Otherwise the delivery is queued and runs as soon
// as the current chunk or listener returns, on the goroutine that was running
// it. This includes emissions made by Lua code itself.
package script
