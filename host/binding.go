package host

import (
	"context"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/doom-runtime/errors"
)

// Func implements a host function. Arguments are read from and results
// written to stack, in wazero's flat encoding.
type Func func(ctx context.Context, ec *Context, stack []uint64)

// Binding is one host function the guest can import.
type Binding struct {
	Func       Func
	Namespace  string
	Name       string
	Params     []api.ValueType
	Results    []api.ValueType
	ParamNames []string
}

// Signature renders the core signature, e.g. "(i32, i32) -> ()".
func (b Binding) Signature() string {
	return Signature(b.Params, b.Results)
}

// Signature renders a core function signature.
func Signature(params, results []api.ValueType) string {
	return "(" + joinTypes(params) + ") -> (" + joinTypes(results) + ")"
}

func joinTypes(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}

func (b Binding) key() string {
	return b.Namespace + "." + b.Name
}

// Table is the immutable set of host functions offered to the guest.
type Table struct {
	index    map[string]int
	bindings []Binding
}

// NewTable builds a table, rejecting empty names and duplicates.
func NewTable(bindings ...Binding) (*Table, error) {
	t := &Table{
		index:    make(map[string]int, len(bindings)),
		bindings: make([]Binding, 0, len(bindings)),
	}
	for _, b := range bindings {
		if b.Namespace == "" || b.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseHost, "binding needs a namespace and a name")
		}
		if b.Func == nil {
			return nil, errors.Registration(b.Namespace, b.Name, errors.InvalidInput(errors.PhaseHost, "nil function"))
		}
		if _, dup := t.index[b.key()]; dup {
			return nil, errors.Registration(b.Namespace, b.Name, errors.InvalidInput(errors.PhaseHost, "duplicate binding"))
		}
		t.index[b.key()] = len(t.bindings)
		t.bindings = append(t.bindings, b)
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(bindings ...Binding) *Table {
	t, err := NewTable(bindings...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup finds the binding for namespace.name.
func (t *Table) Lookup(namespace, name string) (Binding, bool) {
	i, ok := t.index[namespace+"."+name]
	if !ok {
		return Binding{}, false
	}
	return t.bindings[i], true
}

// Bindings returns the bindings in registration order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Namespaces returns the distinct namespaces in registration order.
func (t *Table) Namespaces() []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range t.bindings {
		if !seen[b.Namespace] {
			seen[b.Namespace] = true
			out = append(out, b.Namespace)
		}
	}
	return out
}

// Without returns a copy of the table lacking namespace.name.
func (t *Table) Without(namespace, name string) *Table {
	var kept []Binding
	for _, b := range t.bindings {
		if b.Namespace == namespace && b.Name == name {
			continue
		}
		kept = append(kept, b)
	}
	return MustTable(kept...)
}

// With returns a copy of the table with b added, replacing any binding
// with the same namespace and name.
func (t *Table) With(b Binding) (*Table, error) {
	kept := t.Without(b.Namespace, b.Name).Bindings()
	return NewTable(append(kept, b)...)
}

// Instantiate registers one wazero host module per namespace. Every
// function is bound to ec.
func (t *Table) Instantiate(ctx context.Context, rt wazero.Runtime, ec *Context) ([]api.Module, error) {
	var mods []api.Module
	closeAll := func() {
		for _, m := range mods {
			_ = m.Close(ctx)
		}
	}

	for _, ns := range t.Namespaces() {
		builder := rt.NewHostModuleBuilder(ns)
		for _, b := range t.bindings {
			if b.Namespace != ns {
				continue
			}
			fb := builder.NewFunctionBuilder().
				WithGoModuleFunction(bind(b.Func, ec), b.Params, b.Results)
			if len(b.ParamNames) == len(b.Params) && len(b.ParamNames) > 0 {
				fb = fb.WithParameterNames(b.ParamNames...)
			}
			builder = fb.Export(b.Name)
		}

		mod, err := builder.Instantiate(ctx)
		if err != nil {
			closeAll()
			return nil, errors.Registration(ns, "*", err)
		}
		mods = append(mods, mod)
		Logger().Debug("host module instantiated", zap.String("namespace", ns))
	}
	return mods, nil
}

func bind(fn Func, ec *Context) api.GoModuleFunc {
	return func(ctx context.Context, _ api.Module, stack []uint64) {
		fn(ctx, ec, stack)
	}
}
