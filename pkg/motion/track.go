package motion

import "time"

// Track is an animated value with at most one active driver.
type Track struct {
	Value

	driver Driver
	onDone func()
}

// NewTrack creates a track resting at v.
func NewTrack(v float64) *Track {
	return &Track{Value: Value{Current: v, Target: v}}
}

// Animate attaches d, replacing any running driver. The replaced driver's
// completion callback is discarded. onDone may be nil.
func (t *Track) Animate(d Driver, onDone func()) {
	t.driver = d
	t.onDone = onDone
	d.Start(&t.Value)
}

// Set jumps to v and stops any running driver.
func (t *Track) Set(v float64) {
	t.Stop()
	t.Current = v
	t.Target = v
	t.Velocity = 0
}

// Stop detaches the running driver without calling its completion callback.
func (t *Track) Stop() {
	t.driver = nil
	t.onDone = nil
}

// Active reports whether a driver is attached.
func (t *Track) Active() bool {
	return t.driver != nil
}

// Step advances the running driver. It returns true on the step that
// completes the driver, after running the completion callback.
func (t *Track) Step(dt time.Duration) bool {
	if t.driver == nil {
		return false
	}
	if !t.driver.Step(&t.Value, dt) {
		return false
	}
	done := t.onDone
	t.driver = nil
	t.onDone = nil
	if done != nil {
		done()
	}
	return true
}

// Settled reports whether no driver runs and the value rests within tol.
func (t *Track) Settled(tol Tolerance) bool {
	return t.driver == nil && tol.AtRest(t.Value)
}
