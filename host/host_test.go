package host

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/wippyai/doom-runtime/memory"
)

type fault struct {
	name string
	err  error
}

type faultRecorder struct {
	faults []fault
}

func (r *faultRecorder) record(name string, err error) {
	r.faults = append(r.faults, fault{name: name, err: err})
}

func newRuntime(t *testing.T) wazero.Runtime {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })
	return rt
}

func newTestContext(t *testing.T, pages uint32) (*Context, wazero.Runtime) {
	t.Helper()
	rt := newRuntime(t)
	shared, err := memory.Allocate(context.Background(), rt, "env", "memory", pages)
	require.NoError(t, err)
	return NewContext(shared.Bridge(), nil), rt
}

func testConfig() (Config, *bytes.Buffer, *bytes.Buffer, *faultRecorder) {
	var stdout, stderr bytes.Buffer
	rec := &faultRecorder{}
	return Config{
		Stdout:  &stdout,
		Stderr:  &stderr,
		OnFault: rec.record,
	}, &stdout, &stderr, rec
}

func lookup(t *testing.T, table *Table, name string) Binding {
	t.Helper()
	b, ok := table.Lookup("js", name)
	require.True(t, ok, "binding %s", name)
	return b
}
