package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/doom-runtime/memory"
)

func TestFramebuffer(t *testing.T) {
	ctx := context.Background()
	ec, _ := newTestContext(t, 1)
	fb := NewFramebuffer(4)

	assert.Nil(t, fb.Frame())

	require.NoError(t, ec.Memory().Write(100, []byte{1, 2, 3, 4}))
	fb.Present(ctx, ec, 100)
	assert.Equal(t, []byte{1, 2, 3, 4}, fb.Frame())
	assert.Equal(t, uint32(100), fb.Offset())

	require.NoError(t, ec.Memory().Write(100, []byte{5, 6, 7, 8}))
	assert.Equal(t, []byte{1, 2, 3, 4}, fb.Frame(), "frame is a snapshot")

	fb.Present(ctx, ec, 100)
	assert.Equal(t, []byte{5, 6, 7, 8}, fb.Frame())
	assert.Equal(t, uint64(2), fb.Frames())
}

func TestFramebuffer_DropsOutOfRange(t *testing.T) {
	ctx := context.Background()
	ec, _ := newTestContext(t, 1)
	fb := NewFramebuffer(16)

	require.NoError(t, ec.Memory().Write(0, make([]byte, 16)))
	fb.Present(ctx, ec, 0)

	fb.Present(ctx, ec, memory.PageSize-8)
	fb.Present(ctx, NewContext(nil, nil), 0)

	assert.Equal(t, uint64(1), fb.Frames())
	assert.Equal(t, uint64(2), fb.Dropped())
	assert.Equal(t, uint32(0), fb.Offset())
	assert.Len(t, fb.Frame(), 16)
}
