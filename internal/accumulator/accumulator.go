// Package accumulator tracks elapsed time across pause/resume cycles under a
// configurable time scale.
//
// An Accumulator advances in one of two ways, selected by its TrackingMode:
//
//   - DeltaAccumulation: the owner calls Tick once per step with the step's
//     real duration.
//   - TimestampSampling: elapsed time is folded in lazily from the Clock
//     whenever it is read.
//
// Every mutation that changes how time is counted (pause, mode switch, scale
// change, observed global scale change) first reconciles pending time
// against the old configuration.
//
// An Accumulator is NOT safe for concurrent use.
package accumulator

import (
	"math"
	"time"

	"go.uber.org/zap"

	"gameclock/internal/core"
)

// Accumulator owns an elapsed-time value in microseconds.
type Accumulator struct {
	clock core.Clock
	scale core.ScaleProvider

	elapsed    float64
	running    bool
	mode       TrackingMode
	lastSample int64
	policy     ScalePolicy

	// observedGlobal is the global scale as of the last poll. Time pending
	// since then is counted against it.
	observedGlobal float64

	autostart    bool
	pauseOnReset bool

	logger *zap.Logger
}

// New creates a paused Accumulator with zero elapsed time. A nil scale
// provider reads as a constant 1.0.
func New(clock core.Clock, scale core.ScaleProvider, opts ...Option) *Accumulator {
	if scale == nil {
		scale = core.StaticScale(1)
	}
	a := &Accumulator{
		clock:  clock,
		scale:  scale,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.lastSample = clock.NowTicks()
	a.observedGlobal = scale.CurrentGlobalScale()
	if a.autostart {
		a.Start()
	}
	return a
}

// Start resumes accumulation. Time spent paused is never counted.
func (a *Accumulator) Start() {
	if a.running {
		return
	}
	a.lastSample = a.clock.NowTicks()
	a.observedGlobal = a.scale.CurrentGlobalScale()
	a.running = true
}

// Pause stops accumulation after folding in any pending time.
func (a *Accumulator) Pause() {
	if !a.running {
		return
	}
	a.reconcile()
	a.running = false
}

// Reset zeroes elapsed time. The run state only changes when pause-on-reset
// is enabled.
func (a *Accumulator) Reset() {
	a.elapsed = 0
	a.lastSample = a.clock.NowTicks()
	a.observedGlobal = a.scale.CurrentGlobalScale()
	if a.pauseOnReset {
		a.running = false
	}
}

// Running reports whether time is currently accumulating.
func (a *Accumulator) Running() bool { return a.running }

// Tick advances elapsed time by dt scaled by the effective scale. It only
// accumulates in DeltaAccumulation mode, but polls the global scale in
// either mode. Non-positive deltas are ignored.
func (a *Accumulator) Tick(dt time.Duration) {
	a.pollGlobalScale()
	if !a.running || a.mode != DeltaAccumulation || dt <= 0 {
		return
	}
	a.elapsed += float64(dt) / float64(time.Microsecond) * a.EffectiveScale()
}

// EffectiveScale is the product of the enabled scale factors, 1.0 when none
// is enabled. Negative products are clamped to zero so elapsed time never
// runs backward.
func (a *Accumulator) EffectiveScale() float64 {
	s := 1.0
	if a.policy.UseGlobalScale {
		s *= a.observedGlobal
	}
	if a.policy.UseCustomScale {
		s *= a.policy.CustomScale
	}
	return math.Max(s, 0)
}

// ObservedGlobalScale returns the global scale as of the last poll.
func (a *Accumulator) ObservedGlobalScale() float64 { return a.observedGlobal }

// Mode returns the active tracking mode.
func (a *Accumulator) Mode() TrackingMode { return a.mode }

// Policy returns a copy of the active scale policy.
func (a *Accumulator) Policy() ScalePolicy { return a.policy }

// SetTrackingMode switches how elapsed time advances.
func (a *Accumulator) SetTrackingMode(m TrackingMode) {
	if m == a.mode {
		return
	}
	if a.mode == TimestampSampling {
		a.reconcile()
	}
	if m == TimestampSampling {
		// Still in delta mode here, so adopting the current global scale
		// flushes nothing.
		a.pollGlobalScale()
		a.lastSample = a.clock.NowTicks()
	}
	a.logger.Debug("tracking mode changed",
		zap.Stringer("from", a.mode),
		zap.Stringer("to", m),
		zap.Float64("elapsed_us", a.elapsed))
	a.mode = m
}

// SetCustomScale changes the custom multiplier. Pending time is counted at
// the old value.
func (a *Accumulator) SetCustomScale(v float64) {
	a.reconcile()
	a.policy.CustomScale = v
}

// SetUseCustomScale enables or disables the custom multiplier.
func (a *Accumulator) SetUseCustomScale(enabled bool) {
	a.reconcile()
	a.policy.UseCustomScale = enabled
}

// SetUseGlobalScale enables or disables the global multiplier.
func (a *Accumulator) SetUseGlobalScale(enabled bool) {
	a.reconcile()
	a.policy.UseGlobalScale = enabled
}

// SetScalePolicy replaces the whole scale policy.
func (a *Accumulator) SetScalePolicy(p ScalePolicy) {
	a.reconcile()
	a.policy = p
}

// SetPauseOnReset controls whether Reset also pauses.
func (a *Accumulator) SetPauseOnReset(v bool) { a.pauseOnReset = v }

// reconcile brings elapsed up to date: it adopts any changed global scale,
// then folds in sampled time.
func (a *Accumulator) reconcile() {
	a.pollGlobalScale()
	a.sampleNow()
}

// pollGlobalScale compares the provider against the cached value and, on a
// change, flushes pending time under the cached value before adopting it.
func (a *Accumulator) pollGlobalScale() {
	v := a.scale.CurrentGlobalScale()
	if v != a.observedGlobal {
		a.onGlobalScaleObserved(v)
	}
}

func (a *Accumulator) onGlobalScaleObserved(v float64) {
	a.sampleNow()
	a.logger.Debug("global scale changed",
		zap.Float64("old", a.observedGlobal),
		zap.Float64("new", v))
	a.observedGlobal = v
}

// sampleNow folds in the scaled clock delta since lastSample. Only
// TimestampSampling accumulates this way.
func (a *Accumulator) sampleNow() {
	if a.mode != TimestampSampling || !a.running {
		return
	}
	now := a.clock.NowTicks()
	if now <= a.lastSample {
		return
	}
	a.elapsed += float64(now-a.lastSample) * a.EffectiveScale()
	a.lastSample = now
}
