// Package core defines the external collaborators of the accumulator: a
// monotonic tick source and a global time scale provider.
package core

// Clock is a monotonic tick source. One tick is one microsecond and
// successive readings never decrease.
type Clock interface {
	NowTicks() int64
}

// ScaleProvider reports the global time scale. The value may change between
// any two reads and there is no change notification, so callers poll.
type ScaleProvider interface {
	CurrentGlobalScale() float64
}
