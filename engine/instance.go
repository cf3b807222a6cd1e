package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	doom "github.com/wippyai/doom-runtime"
	"github.com/wippyai/doom-runtime/errors"
	"github.com/wippyai/doom-runtime/host"
	"github.com/wippyai/doom-runtime/memory"
)

// Instance is a linked guest.
type Instance struct {
	engine     *Engine
	module     *Module
	guest      api.Module
	shared     *memory.Shared
	ec         *host.Context
	funcCache  map[string]api.Function
	hostMods   []api.Module
	ownsModule bool
}

// Main calls the guest's "main" export with argc and argv. The result is
// ignored.
func (i *Instance) Main(ctx context.Context, argc, argv int32) error {
	_, err := i.Call(ctx, doom.ExportMain, api.EncodeI32(argc), api.EncodeI32(argv))
	return err
}

// Step calls the guest's "doom_loop_step" export once. The result is
// ignored.
func (i *Instance) Step(ctx context.Context) error {
	_, err := i.Call(ctx, doom.ExportStep)
	return err
}

// Call invokes an exported guest function with raw core values.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	if i.guest == nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Path(name).
			Detail("instance is closed").
			Build()
	}

	fn := i.exportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}

	def := fn.Definition()
	if len(args) != len(def.ParamTypes()) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
			Path(name).
			Value(len(args)).
			Detail("export has signature %s, called with %d argument(s)",
				host.Signature(def.ParamTypes(), def.ResultTypes()), len(args)).
			Build()
	}

	results, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.Trap(name, err)
	}
	return results, nil
}

func (i *Instance) exportedFunction(name string) api.Function {
	if fn, ok := i.funcCache[name]; ok {
		return fn
	}
	fn := i.guest.ExportedFunction(name)
	if fn == nil {
		return nil
	}
	if i.funcCache == nil {
		i.funcCache = make(map[string]api.Function)
	}
	i.funcCache[name] = fn
	return fn
}

// Context returns the execution context shared by the host functions.
func (i *Instance) Context() *host.Context {
	return i.ec
}

// Memory returns the bridge to the shared memory.
func (i *Instance) Memory() *memory.Bridge {
	return i.shared.Bridge()
}

// Module returns the compiled guest.
func (i *Instance) Module() *Module {
	return i.module
}

// Close releases the guest, its host modules and the shared memory. The
// engine can link a new instance afterwards.
func (i *Instance) Close(ctx context.Context) error {
	if i.guest == nil {
		return nil
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(i.guest.Close(ctx))
	for _, m := range i.hostMods {
		keep(m.Close(ctx))
	}
	keep(i.shared.Close(ctx))
	if i.ownsModule {
		keep(i.module.Close(ctx))
	}

	i.guest = nil
	i.hostMods = nil
	i.funcCache = nil

	i.engine.mu.Lock()
	if i.engine.active == i {
		i.engine.active = nil
	}
	i.engine.mu.Unlock()

	if firstErr != nil {
		Logger().Warn("instance close", zap.Error(firstErr))
	}
	return firstErr
}
