package host

import (
	"context"
	"sync"
)

// Presenter receives frames the guest announces through js_draw_screen.
// Present must return promptly and must not fail the guest call.
type Presenter interface {
	Present(ctx context.Context, ec *Context, offset uint32)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, ec *Context, offset uint32)

// Present calls f.
func (f PresenterFunc) Present(ctx context.Context, ec *Context, offset uint32) {
	f(ctx, ec, offset)
}

// NoOp ignores frames. The offset is not inspected, so any value is fine.
type NoOp struct{}

// Present does nothing.
func (NoOp) Present(context.Context, *Context, uint32) {}

// Framebuffer keeps a copy of the most recent frame.
// Frames that fall outside guest memory are counted and dropped.
type Framebuffer struct {
	mu      sync.Mutex
	front   []byte
	back    []byte
	frames  uint64
	dropped uint64
	last    uint32
}

// NewFramebuffer creates a framebuffer for frames of size bytes.
func NewFramebuffer(size int) *Framebuffer {
	return &Framebuffer{
		front: make([]byte, size),
		back:  make([]byte, size),
	}
}

// Present copies one frame starting at offset.
func (f *Framebuffer) Present(_ context.Context, ec *Context, offset uint32) {
	mem := ec.Memory()

	f.mu.Lock()
	defer f.mu.Unlock()

	if mem == nil || mem.ReadInto(offset, f.back) != nil {
		f.dropped++
		return
	}
	f.front, f.back = f.back, f.front
	f.frames++
	f.last = offset
}

// Frame returns a copy of the latest frame, or nil before the first one.
func (f *Framebuffer) Frame() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.frames == 0 {
		return nil
	}
	out := make([]byte, len(f.front))
	copy(out, f.front)
	return out
}

// Offset returns the guest offset of the latest frame.
func (f *Framebuffer) Offset() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Frames returns how many frames were captured.
func (f *Framebuffer) Frames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

// Dropped returns how many frames were out of range.
func (f *Framebuffer) Dropped() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}
