// Package engine compiles the guest, links it against the host import
// table and the shared memory, and calls into the resulting instance.
//
// # Architecture
//
// The engine package provides three main types:
//
//	Engine   - Owns the wazero runtime and its configuration
//	Module   - A compiled guest with its declared imports and exports
//	Instance - The linked guest, its host modules and its shared memory
//
// # Load Flow
//
//  1. Engine.Compile() validates and compiles the guest binary
//  2. Engine.Link() checks every guest import against the host table
//  3. The shared memory is allocated and exported as env.memory
//  4. The host Context is created, capturing the start instant
//  5. Host modules, then the guest, are instantiated
//
// Engine.Load runs all of the above. A failure before step 5 completes
// yields no Instance. Compile failures match errors.ErrCompile; unmet or
// mismatched imports are reported together in one *errors.LinkError.
//
// # Calls
//
// Instance.Main and Instance.Step call the guest's "main" and
// "doom_loop_step" exports and ignore their results. A guest trap is
// returned as an error matching errors.ErrTrap.
//
// # Thread Safety
//
// An Engine hosts at most one live Instance, because the guest resolves
// its imports by module name. Instances are NOT thread-safe and should be
// used by a single goroutine.
package engine
