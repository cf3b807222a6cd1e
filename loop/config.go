package loop

import (
	"context"
	"time"
)

// DefaultInterval is the pause after every step.
const DefaultInterval = 16667 * time.Microsecond

// Policy decides what a step failure does to the loop.
type Policy int

const (
	// FailFast stops the loop and returns the step error.
	FailFast Policy = iota

	// Continue logs the step error and keeps stepping.
	Continue
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case Continue:
		return "continue"
	default:
		return "unknown"
	}
}

// Config holds runner configuration.
type Config struct {
	// Metrics records step counts and timings. Nil disables metrics.
	Metrics *Metrics

	// Sleep pauses between steps. Defaults to a context-aware timer wait.
	Sleep func(ctx context.Context, d time.Duration) error

	// Now times each step for Metrics. Defaults to time.Now.
	Now func() time.Time

	// Interval is the fixed pause after each step. 0 means DefaultInterval.
	Interval time.Duration

	// OnStepError is the step failure policy. Defaults to FailFast.
	OnStepError Policy

	// MaxSteps stops the loop after this many steps. 0 means unbounded.
	MaxSteps uint64
}

// DefaultConfig returns the baseline configuration: 60 Hz, fail fast,
// unbounded.
func DefaultConfig() Config {
	return Config{
		Interval:    DefaultInterval,
		OnStepError: FailFast,
	}
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Sleep == nil {
		c.Sleep = sleep
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
