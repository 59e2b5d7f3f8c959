package core

// StaticScale is a ScaleProvider that never changes.
type StaticScale float64

func (s StaticScale) CurrentGlobalScale() float64 { return float64(s) }

// ScaleFunc adapts a plain function to ScaleProvider.
type ScaleFunc func() float64

func (f ScaleFunc) CurrentGlobalScale() float64 { return f() }
