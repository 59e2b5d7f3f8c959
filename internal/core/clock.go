package core

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// MonotonicClock counts microseconds since it was created.
type MonotonicClock struct {
	base  clockwork.Clock
	epoch time.Time
}

// NewMonotonicClock returns a Clock backed by the real system clock.
func NewMonotonicClock() *MonotonicClock {
	return NewClock(clockwork.NewRealClock())
}

// NewClock returns a Clock backed by c. Pass a clockwork.FakeClock in tests.
func NewClock(c clockwork.Clock) *MonotonicClock {
	return &MonotonicClock{base: c, epoch: c.Now()}
}

func (m *MonotonicClock) NowTicks() int64 { return m.base.Since(m.epoch).Microseconds() }

// Since returns the real duration between tick t and now.
func (m *MonotonicClock) Since(t int64) time.Duration {
	return time.Duration(m.NowTicks()-t) * time.Microsecond
}

// TicksToDuration converts a tick count to a time.Duration.
func TicksToDuration(ticks int64) time.Duration {
	return time.Duration(ticks) * time.Microsecond
}
