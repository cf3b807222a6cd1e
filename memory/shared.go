package memory

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/doom-runtime/errors"
	"github.com/wippyai/doom-runtime/internal/wasmgen"
)

// Shared is a host-allocated linear memory exported to guests under a
// module/name pair.
type Shared struct {
	mod    api.Module
	bridge *Bridge
	module string
	name   string
	pages  uint32
}

// Allocate instantiates a memory of at least pages pages, growable and
// without maximum, exported as module.name.
func Allocate(ctx context.Context, rt wazero.Runtime, module, name string, pages uint32) (*Shared, error) {
	if module == "" || name == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "shared memory needs a module and export name")
	}
	if rt.Module(module) != nil {
		return nil, errors.Load("allocate shared memory", errors.New(errors.PhaseLoad, errors.KindRegistration).
			Detail("module %q already instantiated", module).Build())
	}

	bin := wasmgen.MemoryModule(name, pages)
	mod, err := rt.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName(module))
	if err != nil {
		return nil, errors.Load("allocate shared memory", err)
	}

	mem := mod.ExportedMemory(name)
	if mem == nil {
		_ = mod.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "memory export", name)
	}

	return &Shared{
		mod:    mod,
		bridge: NewBridge(mem),
		module: module,
		name:   name,
		pages:  pages,
	}, nil
}

// Bridge returns the bounds-checked accessor for this memory.
func (s *Shared) Bridge() *Bridge {
	return s.bridge
}

// Module returns the wazero module that owns the memory.
func (s *Shared) Module() api.Module {
	return s.mod
}

// MinPages returns the page count the memory was allocated with.
func (s *Shared) MinPages() uint32 {
	return s.pages
}

// Namespace returns the module and export name the memory is visible under.
func (s *Shared) Namespace() (module, name string) {
	return s.module, s.name
}

// Close releases the memory module.
func (s *Shared) Close(ctx context.Context) error {
	return s.mod.Close(ctx)
}
