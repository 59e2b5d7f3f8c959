package accumulator

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TrackingMode selects how elapsed time advances.
type TrackingMode int

const (
	// DeltaAccumulation advances only when Tick is called.
	DeltaAccumulation TrackingMode = iota
	// TimestampSampling advances from clock readings taken on every read.
	TimestampSampling
)

func (m TrackingMode) String() string {
	switch m {
	case DeltaAccumulation:
		return "delta"
	case TimestampSampling:
		return "timestamp"
	default:
		return fmt.Sprintf("TrackingMode(%d)", int(m))
	}
}

// ParseTrackingMode accepts "delta" or "timestamp", case-insensitively.
func ParseTrackingMode(s string) (TrackingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delta", "deltaaccumulation":
		return DeltaAccumulation, nil
	case "timestamp", "timestampsampling":
		return TimestampSampling, nil
	}
	return 0, fmt.Errorf("unknown tracking mode %q", s)
}

// ScalePolicy selects which multipliers apply. Enabled factors multiply.
type ScalePolicy struct {
	UseGlobalScale bool
	UseCustomScale bool
	CustomScale    float64
}

// Unscaled counts plain real time.
var Unscaled = ScalePolicy{CustomScale: 1}

// Option configures an Accumulator at construction.
type Option func(*Accumulator)

// WithTrackingMode sets the initial tracking mode.
func WithTrackingMode(m TrackingMode) Option {
	return func(a *Accumulator) { a.mode = m }
}

// WithScalePolicy sets the initial scale policy.
func WithScalePolicy(p ScalePolicy) Option {
	return func(a *Accumulator) { a.policy = p }
}

// WithAutostart starts the accumulator as soon as it is built.
func WithAutostart(v bool) Option {
	return func(a *Accumulator) { a.autostart = v }
}

// WithPauseOnReset makes Reset also pause.
func WithPauseOnReset(v bool) Option {
	return func(a *Accumulator) { a.pauseOnReset = v }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(a *Accumulator) {
		if l != nil {
			a.logger = l
		}
	}
}
