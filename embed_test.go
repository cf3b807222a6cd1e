package doomruntime

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func TestGuestWASM_Surface(t *testing.T) {
	require.True(t, bytes.HasPrefix(GuestWASM, []byte("\x00asm")), "embedded guest is a wasm module")

	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, GuestWASM)
	require.NoError(t, err)

	i32 := api.ValueTypeI32
	want := map[string][2][]api.ValueType{
		ImportConsoleLog:             {{i32, i32}, nil},
		ImportStdout:                 {{i32, i32}, nil},
		ImportStderr:                 {{i32, i32}, nil},
		ImportMillisecondsSinceStart: {nil, {i32}},
		ImportDrawScreen:             {{i32}, nil},
	}
	for _, fn := range compiled.ImportedFunctions() {
		ns, name, _ := fn.Import()
		assert.Equal(t, NamespaceJS, ns)
		sig, ok := want[name]
		if assert.True(t, ok, "unexpected import %s", name) {
			assert.Equal(t, len(sig[0]), len(fn.ParamTypes()), name)
			assert.Equal(t, len(sig[1]), len(fn.ResultTypes()), name)
		}
	}

	mems := compiled.ImportedMemories()
	require.Len(t, mems, 1)
	ns, name, _ := mems[0].Import()
	assert.Equal(t, NamespaceEnv, ns)
	assert.Equal(t, ImportMemory, name)
	assert.LessOrEqual(t, mems[0].Min(), uint32(MemoryPages))

	exports := compiled.ExportedFunctions()
	assert.Contains(t, exports, ExportMain)
	assert.Contains(t, exports, ExportStep)
	assert.Len(t, exports[ExportMain].ParamTypes(), 2)
}
