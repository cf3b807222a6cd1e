package engine

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/doom-runtime/host"
	"github.com/wippyai/doom-runtime/internal/wasmgen"
)

var i32 = api.ValueTypeI32

type sig struct {
	params  []api.ValueType
	results []api.ValueType
}

type guestImport struct {
	namespace string
	name      string
	sig       sig
}

func doomImports() []guestImport {
	text := sig{params: []api.ValueType{i32, i32}}
	return []guestImport{
		{"js", "js_console_log", text},
		{"js", "js_stdout", text},
		{"js", "js_stderr", text},
		{"js", "js_milliseconds_since_start", sig{results: []api.ValueType{i32}}},
		{"js", "js_draw_screen", sig{params: []api.ValueType{i32}}},
	}
}

const greeting = "hello from main"

// guestDef describes a synthesized guest. defaultGuest mirrors the real
// game's import and export surface.
type guestDef struct {
	imports   []guestImport
	memNS     string
	memName   string
	memMin    uint32
	memMax    *uint32
	noMemory  bool
	noStep    bool
	stepTraps bool
}

func defaultGuest() guestDef {
	return guestDef{
		imports: doomImports(),
		memNS:   "env",
		memName: "memory",
		memMin:  102,
	}
}

func (s guestDef) without(name string) guestDef {
	var kept []guestImport
	for _, imp := range s.imports {
		if imp.name != name {
			kept = append(kept, imp)
		}
	}
	s.imports = kept
	return s
}

func (s guestDef) retype(name string, to sig) guestDef {
	out := make([]guestImport, len(s.imports))
	copy(out, s.imports)
	for i := range out {
		if out[i].name == name {
			out[i].sig = to
		}
	}
	s.imports = out
	return s
}

// build emits the guest. Exports:
//
//	main(argc, argv i32) i32   logs greeting, returns 0
//	doom_loop_step()           reads the clock, draws the frame at 65536
//	boom()                     traps
//	now() i32                  returns js_milliseconds_since_start
//	bad_log()                  logs an out-of-range slice, then returns
//	grow() i32                 grows memory by one page
func (s guestDef) build() []byte {
	b := wasmgen.NewModuleBuilder()
	idx := make(map[string]uint32)
	for _, imp := range s.imports {
		idx[imp.name] = b.ImportFunc(imp.namespace, imp.name, imp.sig.params, imp.sig.results)
	}
	if !s.noMemory {
		b.ImportMemory(s.memNS, s.memName, s.memMin, s.memMax)
	}

	has := func(name string) bool {
		_, ok := idx[name]
		return ok
	}
	callable := func(name string, want sig) bool {
		if !has(name) {
			return false
		}
		for _, imp := range s.imports {
			if imp.name == name {
				return sameTypes(imp.sig.params, want.params) && sameTypes(imp.sig.results, want.results)
			}
		}
		return false
	}
	text := sig{params: []api.ValueType{i32, i32}}

	var mainBody [][]byte
	if callable("js_console_log", text) {
		mainBody = append(mainBody, wasmgen.I32Const(1024), wasmgen.I32Const(int32(len(greeting))), wasmgen.Call(idx["js_console_log"]))
	}
	mainBody = append(mainBody, wasmgen.I32Const(0))
	main := b.Func([]api.ValueType{i32, i32}, []api.ValueType{i32}, nil, wasmgen.Code(mainBody...))
	b.ExportFunc("main", main)

	if !s.noStep {
		var stepBody [][]byte
		if s.stepTraps {
			stepBody = append(stepBody, wasmgen.Unreachable())
		}
		if callable("js_milliseconds_since_start", sig{results: []api.ValueType{i32}}) {
			stepBody = append(stepBody, wasmgen.Call(idx["js_milliseconds_since_start"]), wasmgen.Drop())
		}
		if callable("js_draw_screen", sig{params: []api.ValueType{i32}}) {
			stepBody = append(stepBody, wasmgen.I32Const(65536), wasmgen.Call(idx["js_draw_screen"]))
		}
		step := b.Func(nil, nil, nil, wasmgen.Code(stepBody...))
		b.ExportFunc("doom_loop_step", step)
	}

	boom := b.Func(nil, nil, nil, wasmgen.Code(wasmgen.Unreachable()))
	b.ExportFunc("boom", boom)

	if callable("js_milliseconds_since_start", sig{results: []api.ValueType{i32}}) {
		now := b.Func(nil, []api.ValueType{i32}, nil, wasmgen.Code(wasmgen.Call(idx["js_milliseconds_since_start"])))
		b.ExportFunc("now", now)
	}
	if callable("js_stdout", text) {
		bad := b.Func(nil, nil, nil, wasmgen.Code(
			wasmgen.I32Const(-16), wasmgen.I32Const(32), wasmgen.Call(idx["js_stdout"]),
		))
		b.ExportFunc("bad_log", bad)
	}
	if !s.noMemory {
		grow := b.Func(nil, []api.ValueType{i32}, nil, wasmgen.Code(wasmgen.I32Const(1), wasmgen.MemoryGrow()))
		b.ExportFunc("grow", grow)
		b.Data(1024, []byte(greeting))
	}

	return b.Build()
}

type fixture struct {
	engine    *Engine
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	frames    []uint32
	faults    []string
	faultErrs []error
}

func newFixture(t *testing.T, cfg *Config) *fixture {
	t.Helper()
	ctx := context.Background()
	eng, err := New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close(ctx) })
	return &fixture{
		engine: eng,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
}

func (f *fixture) table() *host.Table {
	return host.DefaultTable(host.Config{
		Stdout: f.stdout,
		Stderr: f.stderr,
		Presenter: host.PresenterFunc(func(_ context.Context, _ *host.Context, offset uint32) {
			f.frames = append(f.frames, offset)
		}),
		OnFault: func(name string, err error) {
			f.faults = append(f.faults, name)
			f.faultErrs = append(f.faultErrs, err)
		},
	})
}

func (f *fixture) load(t *testing.T, guest guestDef) *Instance {
	t.Helper()
	inst, err := f.engine.Load(context.Background(), guest.build(), f.table())
	require.NoError(t, err)
	t.Cleanup(func() { inst.Close(context.Background()) })
	return inst
}
