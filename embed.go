package doomruntime

import _ "embed"

// GuestWASM contains the compiled game module run by this host.
//
// The checked-in doom.wasm is a small stand-in exposing the same import and
// export surface as the real build: it logs one line from main and asks for
// a frame on every step. Replace the file with a doom.wasm built for the
// "js" import namespace to run the game itself.
//
//go:embed doom.wasm
var GuestWASM []byte

// GuestWASMFilename is the filename for GuestWASM.
const GuestWASMFilename = "doom.wasm"
