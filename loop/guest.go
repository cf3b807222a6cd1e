package loop

import (
	"context"

	"github.com/wippyai/doom-runtime/engine"
)

// Guest is what the loop drives.
type Guest interface {
	Main(ctx context.Context) error
	Step(ctx context.Context) error
}

type instanceGuest struct {
	inst       *engine.Instance
	argc, argv int32
}

// InstanceGuest adapts a linked instance. main receives argc and argv;
// the guest ignores process arguments, so 0, 0 is the usual pair.
func InstanceGuest(inst *engine.Instance, argc, argv int32) Guest {
	return &instanceGuest{inst: inst, argc: argc, argv: argv}
}

func (g *instanceGuest) Main(ctx context.Context) error {
	return g.inst.Main(ctx, g.argc, g.argv)
}

func (g *instanceGuest) Step(ctx context.Context) error {
	return g.inst.Step(ctx)
}
