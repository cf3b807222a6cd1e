package loop

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/doom-runtime/errors"
)

// State is the runner's lifecycle state.
type State int32

const (
	Uninitialized State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Runner calls main once, then steps the guest at a fixed interval.
type Runner struct {
	guest   Guest
	cfg     Config
	state   atomic.Int32
	steps   atomic.Uint64
	started atomic.Bool
}

// New creates a runner for guest.
func New(guest Guest, cfg Config) *Runner {
	return &Runner{
		guest: guest,
		cfg:   cfg.withDefaults(),
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Steps returns how many steps have been attempted.
func (r *Runner) Steps() uint64 {
	return r.steps.Load()
}

// Run calls main and then loops until ctx is done, MaxSteps is reached, or
// a step fails under FailFast. A runner can be run once.
func (r *Runner) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return errors.InvalidInput(errors.PhaseRuntime, "runner already started")
	}
	if ctx.Err() != nil {
		return nil
	}

	if err := r.guest.Main(ctx); err != nil {
		return fmt.Errorf("guest main: %w", err)
	}
	r.state.Store(int32(Running))

	log := Logger()
	log.Info("loop running",
		zap.Duration("interval", r.cfg.Interval),
		zap.Stringer("on_step_error", r.cfg.OnStepError),
		zap.Uint64("max_steps", r.cfg.MaxSteps))

	for {
		if r.cfg.MaxSteps > 0 && r.steps.Load() >= r.cfg.MaxSteps {
			log.Info("loop finished", zap.Uint64("steps", r.steps.Load()))
			return nil
		}
		if ctx.Err() != nil {
			log.Info("loop interrupted", zap.Uint64("steps", r.steps.Load()))
			return nil
		}

		start := r.cfg.Now()
		err := r.guest.Step(ctx)
		r.cfg.Metrics.ObserveStep(r.cfg.Now().Sub(start), err)
		n := r.steps.Add(1)

		if err != nil {
			if r.cfg.OnStepError == FailFast {
				return err
			}
			log.Error("guest step failed", zap.Uint64("step", n), zap.Error(err))
		}

		if err := r.cfg.Sleep(ctx, r.cfg.Interval); err != nil {
			log.Info("loop interrupted", zap.Uint64("steps", n))
			return nil
		}
	}
}
