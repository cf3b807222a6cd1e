package host

import (
	"time"

	"github.com/wippyai/doom-runtime/memory"
)

// Context is the process-lifetime state shared by every host function: the
// instant the guest was about to be instantiated and the shared memory.
// It is created once, before any host function can run, and never
// modified afterwards.
type Context struct {
	start time.Time
	now   func() time.Time
	mem   *memory.Bridge
}

// NewContext captures the start instant from now (time.Now when nil).
func NewContext(mem *memory.Bridge, now func() time.Time) *Context {
	if now == nil {
		now = time.Now
	}
	return &Context{
		start: now(),
		now:   now,
		mem:   mem,
	}
}

// Start returns the instant captured at construction.
func (c *Context) Start() time.Time {
	return c.start
}

// Memory returns the bridge to the shared guest memory.
func (c *Context) Memory() *memory.Bridge {
	return c.mem
}

// Elapsed returns the time since Start.
func (c *Context) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// ElapsedMilliseconds returns whole milliseconds since Start truncated to
// 32 bits. The guest's timer code is written for this width and expects
// the value to wrap after about 24.8 days.
func (c *Context) ElapsedMilliseconds() int32 {
	return int32(c.Elapsed().Milliseconds())
}
