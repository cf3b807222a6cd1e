package wasmgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func TestEncodeULEB128(t *testing.T) {
	tests := []struct {
		in   uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{102, []byte{0x66}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{65536, []byte{0x80, 0x80, 0x04}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeULEB128(tt.in), "%d", tt.in)
	}
}

func TestEncodeSLEB128(t *testing.T) {
	assert.Equal(t, []byte{0x00}, EncodeSLEB128(int32(0)))
	assert.Equal(t, []byte{0x7f}, EncodeSLEB128(int32(-1)))
	assert.Equal(t, []byte{0x3f}, EncodeSLEB128(int32(63)))
	assert.Equal(t, []byte{0xc0, 0x00}, EncodeSLEB128(int32(64)))
	assert.Equal(t, []byte{0x80, 0x08}, EncodeSLEB128(int32(1024)))
	assert.Equal(t, []byte{0x80, 0x80, 0x80, 0x80, 0x78}, EncodeSLEB128(int32(-2147483648)))
}

func TestMemoryModule(t *testing.T) {
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x66, // memory: one, no max, min 102
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	assert.Equal(t, want, MemoryModule("memory", 102))
}

func TestModuleBuilder_Compiles(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	i32 := api.ValueTypeI32
	b := NewModuleBuilder()
	log := b.ImportFunc("js", "js_console_log", []api.ValueType{i32, i32}, nil)
	b.ImportFunc("js", "js_stdout", []api.ValueType{i32, i32}, nil)
	b.ImportMemory("env", "memory", 102, nil)
	main := b.Func([]api.ValueType{i32, i32}, []api.ValueType{i32}, nil, Code(
		I32Const(1024), I32Const(5), Call(log), I32Const(0),
	))
	b.ExportFunc("main", main)
	b.Data(1024, []byte("hello"))

	compiled, err := rt.CompileModule(ctx, b.Build())
	require.NoError(t, err)

	imports := compiled.ImportedFunctions()
	require.Len(t, imports, 2)
	mod, name, ok := imports[0].Import()
	assert.True(t, ok)
	assert.Equal(t, "js", mod)
	assert.Equal(t, "js_console_log", name)
	assert.Equal(t, []api.ValueType{i32, i32}, imports[0].ParamTypes())

	mems := compiled.ImportedMemories()
	require.Len(t, mems, 1)
	assert.Equal(t, uint32(102), mems[0].Min())

	exports := compiled.ExportedFunctions()
	require.Contains(t, exports, "main")
	assert.Equal(t, []api.ValueType{i32}, exports["main"].ResultTypes())
}

func TestModuleBuilder_ImportAfterFuncPanics(t *testing.T) {
	b := NewModuleBuilder()
	b.Func(nil, nil, nil, Code())
	assert.Panics(t, func() {
		b.ImportFunc("js", "late", nil, nil)
	})
}

func TestModuleBuilder_TypesDeduplicated(t *testing.T) {
	i32 := api.ValueTypeI32
	b := NewModuleBuilder()
	b.ImportFunc("js", "a", []api.ValueType{i32}, nil)
	b.ImportFunc("js", "b", []api.ValueType{i32}, nil)
	b.Func([]api.ValueType{i32}, nil, nil, Code())
	assert.Len(t, b.types, 1)
}
