// Package schedule provides a global time scale that follows named phases
// over real time.
package schedule

import (
	"time"

	"gameclock/internal/config"
	"gameclock/internal/core"
)

// Schedule is a core.ScaleProvider whose value changes as real time passes.
// It reports 1.0 when it has no phases. Without looping, the last phase's
// scale holds once every phase has run.
type Schedule struct {
	cfg   config.ScaleSchedule
	start int64
	clock core.Clock
}

// NewWithClock creates a Schedule timed by clock. Share the accumulator's
// clock so both see the same real time.
func NewWithClock(s config.ScaleSchedule, clock core.Clock) *Schedule {
	return &Schedule{
		cfg:   s,
		start: clock.NowTicks(),
		clock: clock,
	}
}

func (s *Schedule) Elapsed() time.Duration {
	return core.TicksToDuration(s.clock.NowTicks() - s.start)
}

func (s *Schedule) CurrentPhaseIndex() int {
	elapsed := s.Elapsed()
	if s.cfg.Loop {
		if total := s.cfg.TotalDuration(); total > 0 {
			elapsed %= total
		}
	}
	var cumulative time.Duration
	for i, p := range s.cfg.Phases {
		cumulative += p.Duration
		if elapsed < cumulative {
			return i
		}
	}
	return len(s.cfg.Phases)
}

func (s *Schedule) CurrentPhase() *config.ScalePhase {
	idx := s.CurrentPhaseIndex()
	if idx >= len(s.cfg.Phases) {
		return nil
	}
	return &s.cfg.Phases[idx]
}

// IsComplete reports whether a non-looping schedule has run every phase.
func (s *Schedule) IsComplete() bool {
	return s.CurrentPhaseIndex() >= len(s.cfg.Phases)
}

func (s *Schedule) CurrentGlobalScale() float64 {
	if len(s.cfg.Phases) == 0 {
		return 1
	}
	if phase := s.CurrentPhase(); phase != nil {
		return phase.Scale
	}
	return s.cfg.Phases[len(s.cfg.Phases)-1].Scale
}
