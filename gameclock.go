// Package gameclock accumulates elapsed game time across pause/resume cycles
// under an engine-driven, custom or unscaled time scale.
package gameclock

import (
	"gameclock/internal/accumulator"
	"gameclock/internal/core"
)

type (
	Accumulator  = accumulator.Accumulator
	Option       = accumulator.Option
	TrackingMode = accumulator.TrackingMode
	ScalePolicy  = accumulator.ScalePolicy
	Components   = accumulator.Components
	Snapshot     = accumulator.Snapshot

	// Clock returns monotonic microsecond ticks.
	Clock = core.Clock
	// ScaleProvider reports the global time scale. It is polled.
	ScaleProvider = core.ScaleProvider
	StaticScale   = core.StaticScale
	ScaleFunc     = core.ScaleFunc
)

const (
	DeltaAccumulation = accumulator.DeltaAccumulation
	TimestampSampling = accumulator.TimestampSampling
)

var (
	WithTrackingMode = accumulator.WithTrackingMode
	WithScalePolicy  = accumulator.WithScalePolicy
	WithAutostart    = accumulator.WithAutostart
	WithPauseOnReset = accumulator.WithPauseOnReset
	WithLogger       = accumulator.WithLogger

	ParseTrackingMode = accumulator.ParseTrackingMode
	NewMonotonicClock = core.NewMonotonicClock
)

// New creates an Accumulator on the given clock and scale provider.
func New(clock Clock, scale ScaleProvider, opts ...Option) *Accumulator {
	return accumulator.New(clock, scale, opts...)
}

// NewRealTime creates an Accumulator on the system monotonic clock. A nil
// scale provider reads as 1.0.
func NewRealTime(scale ScaleProvider, opts ...Option) *Accumulator {
	return accumulator.New(core.NewMonotonicClock(), scale, opts...)
}
