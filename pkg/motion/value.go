package motion

import (
	"math"
	"time"
)

// Value is one animated scalar.
type Value struct {
	Current  float64
	Target   float64
	Velocity float64 // units per second
}

// Driver advances a Value towards its target.
// Start is called once when the driver is attached; Step reports true when
// the motion is complete, at which point the value rests on its target.
type Driver interface {
	Start(v *Value)
	Step(v *Value, dt time.Duration) bool
}

// Overshooter is implemented by drivers that can finish partway through a
// step. Leftover is the part of the finishing step's dt they did not use.
type Overshooter interface {
	Leftover() time.Duration
}

func leftover(d Driver) time.Duration {
	if o, ok := d.(Overshooter); ok {
		return max(o.Leftover(), 0)
	}
	return 0
}

// Tolerance is the settling rule: a value within Displacement of its target
// and moving slower than Speed is considered at rest.
type Tolerance struct {
	Displacement float64
	Speed        float64
}

// DefaultTolerance matches the rest thresholds of common mobile spring
// runtimes, expressed in points and points per second.
var DefaultTolerance = Tolerance{Displacement: 0.01, Speed: 2}

// ScaleTolerance is tighter, for unit-range properties such as scale or opacity.
var ScaleTolerance = Tolerance{Displacement: 0.001, Speed: 0.01}

// AtRest reports whether v satisfies the tolerance.
func (t Tolerance) AtRest(v Value) bool {
	return math.Abs(v.Current-v.Target) <= t.Displacement && math.Abs(v.Velocity) <= t.Speed
}

func (t Tolerance) orDefault() Tolerance {
	if t.Displacement <= 0 && t.Speed <= 0 {
		return DefaultTolerance
	}
	return t
}

// rest pins the value on its target.
func rest(v *Value) {
	v.Current = v.Target
	v.Velocity = 0
}
