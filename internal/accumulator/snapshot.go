package accumulator

// Snapshot is a reconciled, read-only view of an Accumulator.
type Snapshot struct {
	Microseconds   float64
	Running        bool
	Mode           TrackingMode
	Policy         ScalePolicy
	EffectiveScale float64
	GlobalScale    float64
	Components     Components
}

// Snapshot reconciles pending time once and captures the full state.
func (a *Accumulator) Snapshot() Snapshot {
	us := a.ElapsedMicroseconds()
	return Snapshot{
		Microseconds:   us,
		Running:        a.running,
		Mode:           a.mode,
		Policy:         a.policy,
		EffectiveScale: a.EffectiveScale(),
		GlobalScale:    a.observedGlobal,
		Components:     ComponentsOf(us),
	}
}

func (s Snapshot) Milliseconds() float64 { return s.Microseconds / usPerMilli }
func (s Snapshot) Seconds() float64      { return s.Microseconds / usPerSecond }
func (s Snapshot) Minutes() float64      { return s.Microseconds / usPerMinute }
func (s Snapshot) Hours() float64        { return s.Microseconds / usPerHour }
func (s Snapshot) Days() float64         { return s.Microseconds / usPerDay }

// Formatted renders the snapshot like Accumulator.FormattedString.
func (s Snapshot) Formatted(includeMilliseconds bool, delimiter string) string {
	return s.Components.Format(includeMilliseconds, delimiter)
}
