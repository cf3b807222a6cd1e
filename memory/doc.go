// Package memory owns the linear memory shared between the host and the
// guest, and mediates every host-side access to it.
//
// # Shared Memory
//
// The guest declares its memory as an import (env.memory). wazero host
// modules cannot export memory, so Allocate synthesizes a one-memory module
// and instantiates it under the import namespace before the guest:
//
//	shared, err := memory.Allocate(ctx, rt, "env", "memory", 102)
//	bridge := shared.Bridge()
//
// # Bridge
//
// Bridge is the only way host code reads guest bytes. Offsets and lengths
// come from guest code and are checked against the memory size at call
// time, so growth by the guest is observed:
//
//	data, err := bridge.Read(offset, length)     // copy, or ErrOutOfBounds
//	text, err := bridge.ReadString(offset, length) // also ErrTextDecode
//
// Returned slices are copies and stay valid after the guest mutates or
// grows its memory.
package memory
