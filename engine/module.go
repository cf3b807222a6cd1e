package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/doom-runtime/errors"
	"github.com/wippyai/doom-runtime/host"
)

// Kind is the kind of an import or export.
type Kind string

const (
	KindFunc   Kind = "func"
	KindMemory Kind = "memory"
)

// ImportDef describes one import the guest declares.
type ImportDef struct {
	Namespace string
	Name      string
	Kind      Kind
	Signature string
}

// ExportDef describes one export the guest provides.
type ExportDef struct {
	Name      string
	Kind      Kind
	Signature string
}

// Module is a compiled guest.
type Module struct {
	compiled wazero.CompiledModule
}

// Compile validates and compiles binary. Failures match errors.ErrCompile.
func (e *Engine) Compile(ctx context.Context, binary []byte) (*Module, error) {
	if len(binary) == 0 {
		return nil, errors.Compile(fmt.Errorf("empty binary"))
	}
	compiled, err := e.runtime.CompileModule(ctx, binary)
	if err != nil {
		return nil, errors.Compile(err)
	}
	Logger().Debug("guest compiled",
		zap.Int("bytes", len(binary)),
		zap.Int("imports", len(compiled.ImportedFunctions())+len(compiled.ImportedMemories())),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return &Module{compiled: compiled}, nil
}

// Imports lists the guest's function and memory imports in declaration
// order, functions first.
func (m *Module) Imports() []ImportDef {
	var out []ImportDef
	for _, fn := range m.compiled.ImportedFunctions() {
		ns, name, _ := fn.Import()
		out = append(out, ImportDef{
			Namespace: ns,
			Name:      name,
			Kind:      KindFunc,
			Signature: host.Signature(fn.ParamTypes(), fn.ResultTypes()),
		})
	}
	for _, mem := range m.compiled.ImportedMemories() {
		ns, name, _ := mem.Import()
		out = append(out, ImportDef{
			Namespace: ns,
			Name:      name,
			Kind:      KindMemory,
			Signature: memorySignature(mem),
		})
	}
	return out
}

// Exports lists the guest's function and memory exports sorted by name.
func (m *Module) Exports() []ExportDef {
	var out []ExportDef
	for name, fn := range m.compiled.ExportedFunctions() {
		out = append(out, ExportDef{
			Name:      name,
			Kind:      KindFunc,
			Signature: host.Signature(fn.ParamTypes(), fn.ResultTypes()),
		})
	}
	for name, mem := range m.compiled.ExportedMemories() {
		out = append(out, ExportDef{
			Name:      name,
			Kind:      KindMemory,
			Signature: memorySignature(mem),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Inspect logs every import and export at debug level.
func (m *Module) Inspect(l *zap.Logger) {
	if l == nil {
		l = Logger()
	}
	for _, imp := range m.Imports() {
		l.Debug("guest import",
			zap.String("namespace", imp.Namespace),
			zap.String("name", imp.Name),
			zap.String("kind", string(imp.Kind)),
			zap.String("signature", imp.Signature))
	}
	for _, exp := range m.Exports() {
		l.Debug("guest export",
			zap.String("name", exp.Name),
			zap.String("kind", string(exp.Kind)),
			zap.String("signature", exp.Signature))
	}
}

// Close releases the compiled code.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

func memorySignature(mem api.MemoryDefinition) string {
	if max, ok := mem.Max(); ok {
		return fmt.Sprintf("memory{min: %d, max: %d}", mem.Min(), max)
	}
	return fmt.Sprintf("memory{min: %d}", mem.Min())
}
