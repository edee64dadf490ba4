package motion

import (
	"math"
	"time"
)

// Easing maps normalized time [0,1] to normalized progress.
type Easing func(float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// InOutSine eases in and out along a half sine wave.
func InOutSine(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

// OutCubic decelerates towards the end.
func OutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

// InOutQuad is the default easing of timed animations.
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// Timing moves the value to To over a fixed Duration.
// A nil Easing uses InOutQuad.
type Timing struct {
	To       float64
	Duration time.Duration
	Easing   Easing

	from    float64
	elapsed time.Duration
	left    time.Duration
}

func (t *Timing) Start(v *Value) {
	t.from = v.Current
	t.elapsed = 0
	t.left = 0
	v.Target = t.To
}

func (t *Timing) Step(v *Value, dt time.Duration) bool {
	t.elapsed += dt
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		t.left = min(dt, t.elapsed-max(t.Duration, 0))
		rest(v)
		return true
	}
	ease := t.Easing
	if ease == nil {
		ease = InOutQuad
	}
	prev := v.Current
	p := float64(t.elapsed) / float64(t.Duration)
	v.Current = t.from + (t.To-t.from)*ease(p)
	if dt > 0 {
		v.Velocity = (v.Current - prev) / dt.Seconds()
	}
	return false
}

// Oscillation bobs the value around where it started for a whole number of
// periods and ends exactly on the starting point. The first half-cycle moves
// towards negative offsets.
type Oscillation struct {
	Amplitude float64
	Period    time.Duration
	Cycles    int

	base    float64
	elapsed time.Duration
	left    time.Duration
}

// Duration is the total running time of the oscillation.
func (o *Oscillation) Duration() time.Duration {
	return o.Period * time.Duration(o.Cycles)
}

func (o *Oscillation) Start(v *Value) {
	o.base = v.Current
	o.elapsed = 0
	o.left = 0
	v.Target = o.base
}

func (o *Oscillation) Step(v *Value, dt time.Duration) bool {
	o.elapsed += dt
	if o.Period <= 0 || o.Cycles <= 0 || o.elapsed >= o.Duration() {
		o.left = min(dt, o.elapsed-max(o.Duration(), 0))
		rest(v)
		return true
	}
	w := 2 * math.Pi / o.Period.Seconds()
	t := o.elapsed.Seconds()
	v.Current = o.base - o.Amplitude*math.Sin(w*t)
	v.Velocity = -o.Amplitude * w * math.Cos(w*t)
	return false
}

func (t *Timing) Leftover() time.Duration { return t.left }

func (o *Oscillation) Leftover() time.Duration { return o.left }
