package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	doom "github.com/wippyai/doom-runtime"
	"github.com/wippyai/doom-runtime/errors"
	"github.com/wippyai/doom-runtime/host"
	"github.com/wippyai/doom-runtime/memory"
)

// Link resolves every guest import against table and the shared memory,
// then instantiates the guest. The guest's start function, if any, runs
// during instantiation; "main" is left for Instance.Main.
func (e *Engine) Link(ctx context.Context, mod *Module, table *host.Table) (*Instance, error) {
	if mod == nil || table == nil {
		return nil, errors.InvalidInput(errors.PhaseLinking, "module and host table are required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return nil, errors.New(errors.PhaseLinking, errors.KindInstantiation).
			Detail("engine already hosts an instance; close it first").
			Build()
	}

	pages, problems := e.preflight(mod, table)
	if len(problems) > 0 {
		return nil, errors.NewLinkError(problems)
	}

	shared, err := memory.Allocate(ctx, e.runtime, doom.NamespaceEnv, doom.ImportMemory, pages)
	if err != nil {
		return nil, err
	}

	ec := host.NewContext(shared.Bridge(), e.cfg.Now)

	hostMods, err := table.Instantiate(ctx, e.runtime, ec)
	if err != nil {
		_ = shared.Close(ctx)
		return nil, &errors.LinkError{Cause: err}
	}

	cfg := wazero.NewModuleConfig().
		WithName(e.cfg.GuestName).
		WithStartFunctions()
	guest, err := e.runtime.InstantiateModule(ctx, mod.compiled, cfg)
	if err != nil {
		for _, m := range hostMods {
			_ = m.Close(ctx)
		}
		_ = shared.Close(ctx)
		return nil, &errors.LinkError{Cause: err}
	}

	inst := &Instance{
		engine:   e,
		module:   mod,
		guest:    guest,
		hostMods: hostMods,
		shared:   shared,
		ec:       ec,
	}
	e.active = inst

	Logger().Info("guest linked",
		zap.String("module", e.cfg.GuestName),
		zap.Int("host_functions", len(table.Bindings())),
		zap.Uint32("memory_pages", pages))
	return inst, nil
}

// preflight returns the shared memory size and every import the host
// cannot satisfy.
func (e *Engine) preflight(mod *Module, table *host.Table) (uint32, []errors.ImportProblem) {
	var problems []errors.ImportProblem

	for _, fn := range mod.compiled.ImportedFunctions() {
		ns, name, _ := fn.Import()
		want := host.Signature(fn.ParamTypes(), fn.ResultTypes())

		b, ok := table.Lookup(ns, name)
		if !ok {
			problems = append(problems, errors.ImportProblem{Namespace: ns, Name: name, Want: want})
			continue
		}
		if !sameTypes(b.Params, fn.ParamTypes()) || !sameTypes(b.Results, fn.ResultTypes()) {
			problems = append(problems, errors.ImportProblem{
				Namespace: ns,
				Name:      name,
				Want:      want,
				Have:      b.Signature(),
			})
		}
	}

	pages := e.cfg.MemoryPages
	mems := mod.compiled.ImportedMemories()
	if len(mems) == 0 {
		problems = append(problems, errors.ImportProblem{
			Namespace: doom.NamespaceEnv,
			Name:      doom.ImportMemory,
			Want:      "(not imported)",
			Have:      fmt.Sprintf("memory{min: %d}", pages),
		})
	}
	for _, mem := range mems {
		ns, name, _ := mem.Import()
		want := memorySignature(mem)

		if ns != doom.NamespaceEnv || name != doom.ImportMemory {
			problems = append(problems, errors.ImportProblem{Namespace: ns, Name: name, Want: want})
			continue
		}
		if mem.Min() > pages {
			pages = mem.Min()
		}
		// The shared memory has no maximum, so a bounded import cannot match.
		if max, ok := mem.Max(); ok && max < e.limitPages() {
			problems = append(problems, errors.ImportProblem{
				Namespace: ns,
				Name:      name,
				Want:      want,
				Have:      fmt.Sprintf("memory{min: %d} (unbounded)", pages),
			})
			continue
		}
		if limit := e.cfg.MemoryLimitPages; limit > 0 && pages > limit {
			problems = append(problems, errors.ImportProblem{
				Namespace: ns,
				Name:      name,
				Want:      want,
				Have:      fmt.Sprintf("memory{limit: %d}", limit),
			})
		}
	}

	return pages, problems
}

func (e *Engine) limitPages() uint32 {
	if e.cfg.MemoryLimitPages > 0 {
		return e.cfg.MemoryLimitPages
	}
	return 65536
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
