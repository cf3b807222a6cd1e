// Package doomruntime hosts a single pre-compiled WebAssembly game module.
//
// The guest is embedded at build time (GuestWASM), compiled and linked with
// wazero against a fixed set of host functions, initialized once through its
// main export and then stepped at a fixed 60 Hz cadence.
//
// # Architecture Overview
//
//	doomruntime/         Embedded guest binary and import/export names
//	├── engine/          Compiles the guest, links imports, owns instances
//	├── host/            Execution context and the host import table
//	├── memory/          Shared linear memory and bounds-checked access
//	├── loop/            Fixed-rate step loop and its metrics
//	├── errors/          Structured error types
//	└── cmd/run/         Process entry point
//
// # Host/Guest Boundary
//
// The guest imports its linear memory from the host (env.memory) and five
// functions from the "js" namespace:
//
//	js_console_log(offset, length)   guest text to stdout
//	js_stdout(offset, length)        guest text to stdout
//	js_stderr(offset, length)        guest text to the error stream
//	js_milliseconds_since_start()    elapsed ms since the context was created
//	js_draw_screen(offset)           frame hand-off, a no-op by default
//
// Every (offset, length) pair is treated as untrusted. Host functions read
// guest bytes only through memory.Bridge, which copies the range or reports
// an out-of-bounds error without touching adjacent memory.
//
// # Quick Start
//
//	eng, err := engine.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	inst, err := eng.Load(ctx, doomruntime.GuestWASM, host.DefaultTable(host.Config{}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runner := loop.New(loop.InstanceGuest(inst, 0, 0), loop.DefaultConfig())
//	if err := runner.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package doomruntime
