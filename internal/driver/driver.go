// Package driver runs the step loop that advances an accumulator in
// DeltaAccumulation mode and applies control commands.
//
// The loop goroutine is the only goroutine that touches the accumulator.
// Other goroutines hand it commands through Send.
package driver

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"gameclock/internal/accumulator"
	"gameclock/internal/core"
)

// Config controls the step loop.
type Config struct {
	StepsPerSecond int // 0 = unpaced
	MaxSteps       int // 0 = until the context is done

	// OnStep runs on the loop goroutine after every step.
	OnStep func(*accumulator.Accumulator)

	Logger *zap.Logger
}

// Driver measures real step durations from a Clock and feeds them to an
// Accumulator.
type Driver struct {
	acc      *accumulator.Accumulator
	clock    core.Clock
	pacer    *Pacer
	maxSteps int
	onStep   func(*accumulator.Accumulator)
	logger   *zap.Logger

	commands chan Command
	steps    atomic.Int64
}

func New(acc *accumulator.Accumulator, clock core.Clock, cfg Config) *Driver {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		acc:      acc,
		clock:    clock,
		pacer:    NewPacer(cfg.StepsPerSecond),
		maxSteps: cfg.MaxSteps,
		onStep:   cfg.OnStep,
		logger:   logger,
		commands: make(chan Command, 16),
	}
}

// Send queues a command for the loop. It blocks while the queue is full.
func (d *Driver) Send(ctx context.Context, cmd Command) error {
	select {
	case d.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Steps returns how many steps have run.
func (d *Driver) Steps() int64 { return d.steps.Load() }

// Run steps until MaxSteps is reached or ctx is done. Cancellation is a
// normal stop and returns nil.
func (d *Driver) Run(ctx context.Context) error {
	d.logger.Info("driver started",
		zap.Int("steps_per_second", d.pacer.Rate()),
		zap.Int("max_steps", d.maxSteps),
		zap.Stringer("mode", d.acc.Mode()))

	last := d.clock.NowTicks()
	for d.maxSteps == 0 || d.steps.Load() < int64(d.maxSteps) {
		if err := d.pacer.Wait(ctx); err != nil {
			// The limiter also fails early when the next slot lies past
			// the deadline; either way the context is about to end.
			<-ctx.Done()
			break
		}
		// The step that just ended is counted under the settings it ran
		// with; queued commands only apply from here on.
		now := d.clock.NowTicks()
		d.acc.Tick(core.TicksToDuration(now - last))
		last = now
		d.drainCommands()
		d.steps.Add(1)

		if d.onStep != nil {
			d.onStep(d.acc)
		}
	}

	d.drainCommands()
	d.logger.Info("driver stopped",
		zap.Int64("steps", d.steps.Load()),
		zap.Float64("elapsed_seconds", d.acc.ElapsedSeconds()))
	return nil
}

func (d *Driver) drainCommands() {
	for {
		select {
		case cmd := <-d.commands:
			cmd.apply(d.acc)
			d.logger.Debug("command applied",
				zap.Stringer("command", cmd.Kind),
				zap.Bool("running", d.acc.Running()))
		default:
			return
		}
	}
}
