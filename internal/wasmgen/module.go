// Package wasmgen synthesizes small core WebAssembly modules.
//
// The runtime uses it to build the module that owns the shared linear
// memory; tests use it to build guest fixtures with a chosen import and
// export surface.
package wasmgen

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

type funcType struct {
	params  []api.ValueType
	results []api.ValueType
}

func (t funcType) key() string {
	return fmt.Sprint(t.params, "->", t.results)
}

type funcImport struct {
	module  string
	name    string
	typeIdx uint32
}

type memoryLimits struct {
	max *uint32
	min uint32
}

type memoryImport struct {
	module string
	name   string
	limits memoryLimits
}

type funcDef struct {
	locals  []api.ValueType
	body    []byte
	typeIdx uint32
}

type export struct {
	name string
	kind byte
	idx  uint32
}

type dataSegment struct {
	data   []byte
	offset uint32
}

// ModuleBuilder builds a module section by section.
// Function imports must be declared before any function is defined, as
// imported functions occupy the low end of the function index space.
type ModuleBuilder struct {
	memImport *memoryImport
	memory    *memoryLimits
	typeIndex map[string]uint32
	types     []funcType
	imports   []funcImport
	funcs     []funcDef
	exports   []export
	data      []dataSegment
}

// NewModuleBuilder creates an empty module builder.
func NewModuleBuilder() *ModuleBuilder {
	return &ModuleBuilder{typeIndex: make(map[string]uint32)}
}

func (b *ModuleBuilder) typeOf(params, results []api.ValueType) uint32 {
	t := funcType{params: params, results: results}
	if idx, ok := b.typeIndex[t.key()]; ok {
		return idx
	}
	idx := uint32(len(b.types))
	b.types = append(b.types, t)
	b.typeIndex[t.key()] = idx
	return idx
}

// ImportFunc declares a function import and returns its function index.
func (b *ModuleBuilder) ImportFunc(module, name string, params, results []api.ValueType) uint32 {
	if len(b.funcs) > 0 {
		panic("wasmgen: function imports must precede function definitions")
	}
	b.imports = append(b.imports, funcImport{
		module:  module,
		name:    name,
		typeIdx: b.typeOf(params, results),
	})
	return uint32(len(b.imports) - 1)
}

// ImportMemory declares memory 0 as imported. A nil max means unbounded.
func (b *ModuleBuilder) ImportMemory(module, name string, min uint32, max *uint32) {
	b.memImport = &memoryImport{
		module: module,
		name:   name,
		limits: memoryLimits{min: min, max: max},
	}
	b.memory = nil
}

// Memory defines memory 0 locally. A nil max means unbounded.
func (b *ModuleBuilder) Memory(min uint32, max *uint32) {
	b.memory = &memoryLimits{min: min, max: max}
	b.memImport = nil
}

// ExportMemory exports memory 0, imported or local.
func (b *ModuleBuilder) ExportMemory(name string) {
	b.exports = append(b.exports, export{name: name, kind: 0x02})
}

// Func defines a function and returns its function index.
// body is a complete expression, see Code.
func (b *ModuleBuilder) Func(params, results, locals []api.ValueType, body []byte) uint32 {
	b.funcs = append(b.funcs, funcDef{
		typeIdx: b.typeOf(params, results),
		locals:  locals,
		body:    body,
	})
	return uint32(len(b.imports) + len(b.funcs) - 1)
}

// ExportFunc exports the function at idx under name.
func (b *ModuleBuilder) ExportFunc(name string, idx uint32) {
	b.exports = append(b.exports, export{name: name, kind: 0x00, idx: idx})
}

// Data places bytes at offset in memory 0 at instantiation.
func (b *ModuleBuilder) Data(offset uint32, data []byte) {
	b.data = append(b.data, dataSegment{offset: offset, data: data})
}

// Build generates the WASM module bytes.
func (b *ModuleBuilder) Build() []byte {
	wasm := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	if len(b.types) > 0 {
		wasm = appendSection(wasm, 0x01, b.buildTypeSection())
	}
	if len(b.imports) > 0 || b.memImport != nil {
		wasm = appendSection(wasm, 0x02, b.buildImportSection())
	}
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, 0x03, b.buildFuncSection())
	}
	if b.memory != nil {
		section := append([]byte{0x01}, encodeLimits(b.memory.min, b.memory.max)...)
		wasm = appendSection(wasm, 0x05, section)
	}
	if len(b.exports) > 0 {
		wasm = appendSection(wasm, 0x07, b.buildExportSection())
	}
	if len(b.funcs) > 0 {
		wasm = appendSection(wasm, 0x0a, b.buildCodeSection())
	}
	if len(b.data) > 0 {
		wasm = appendSection(wasm, 0x0b, b.buildDataSection())
	}
	return wasm
}

func (b *ModuleBuilder) buildTypeSection() []byte {
	section := EncodeULEB128(uint32(len(b.types)))
	for _, t := range b.types {
		section = append(section, 0x60)
		section = append(section, EncodeULEB128(uint32(len(t.params)))...)
		for _, p := range t.params {
			section = append(section, ValTypeToWasm(p))
		}
		section = append(section, EncodeULEB128(uint32(len(t.results)))...)
		for _, r := range t.results {
			section = append(section, ValTypeToWasm(r))
		}
	}
	return section
}

func (b *ModuleBuilder) buildImportSection() []byte {
	count := len(b.imports)
	if b.memImport != nil {
		count++
	}
	section := EncodeULEB128(uint32(count))
	for _, imp := range b.imports {
		section = append(section, encodeName(imp.module)...)
		section = append(section, encodeName(imp.name)...)
		section = append(section, 0x00)
		section = append(section, EncodeULEB128(imp.typeIdx)...)
	}
	if m := b.memImport; m != nil {
		section = append(section, encodeName(m.module)...)
		section = append(section, encodeName(m.name)...)
		section = append(section, 0x02)
		section = append(section, encodeLimits(m.limits.min, m.limits.max)...)
	}
	return section
}

func (b *ModuleBuilder) buildFuncSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		section = append(section, EncodeULEB128(f.typeIdx)...)
	}
	return section
}

func (b *ModuleBuilder) buildExportSection() []byte {
	section := EncodeULEB128(uint32(len(b.exports)))
	for _, e := range b.exports {
		section = append(section, encodeName(e.name)...)
		section = append(section, e.kind)
		section = append(section, EncodeULEB128(e.idx)...)
	}
	return section
}

func (b *ModuleBuilder) buildCodeSection() []byte {
	section := EncodeULEB128(uint32(len(b.funcs)))
	for _, f := range b.funcs {
		body := EncodeULEB128(uint32(len(f.locals)))
		for _, l := range f.locals {
			body = append(body, 0x01, ValTypeToWasm(l))
		}
		body = append(body, f.body...)
		section = append(section, EncodeULEB128(uint32(len(body)))...)
		section = append(section, body...)
	}
	return section
}

func (b *ModuleBuilder) buildDataSection() []byte {
	section := EncodeULEB128(uint32(len(b.data)))
	for _, d := range b.data {
		section = append(section, 0x00)
		section = append(section, I32Const(int32(d.offset))...)
		section = append(section, OpEnd)
		section = append(section, EncodeULEB128(uint32(len(d.data)))...)
		section = append(section, d.data...)
	}
	return section
}

// MemoryModule returns a module that defines one memory of minPages with no
// maximum and exports it under exportName.
func MemoryModule(exportName string, minPages uint32) []byte {
	b := NewModuleBuilder()
	b.Memory(minPages, nil)
	b.ExportMemory(exportName)
	return b.Build()
}
