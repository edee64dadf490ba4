package motion

import "time"

// Delay holds the value still for Duration, then hands over to Then.
type Delay struct {
	Duration time.Duration
	Then     Driver

	elapsed time.Duration
	started bool
	left    time.Duration
}

func (d *Delay) Start(v *Value) {
	d.elapsed = 0
	d.started = false
	d.left = 0
}

func (d *Delay) Step(v *Value, dt time.Duration) bool {
	if !d.started {
		d.elapsed += dt
		if d.elapsed < d.Duration {
			return false
		}
		d.started = true
		dt = min(dt, d.elapsed-d.Duration)
		if d.Then == nil {
			d.left = dt
			return true
		}
		d.Then.Start(v)
	}
	if d.Then == nil {
		d.left = dt
		return true
	}
	done := d.Then.Step(v, dt)
	if done {
		d.left = leftover(d.Then)
	}
	return done
}

func (d *Delay) Leftover() time.Duration { return d.left }

// Sequence runs its steps one after another on the same value.
type Sequence struct {
	Steps []Driver

	idx  int
	left time.Duration
}

// Seq is shorthand for a Sequence of drivers.
func Seq(steps ...Driver) *Sequence {
	return &Sequence{Steps: steps}
}

func (s *Sequence) Start(v *Value) {
	s.idx = 0
	s.left = 0
	if len(s.Steps) > 0 {
		s.Steps[0].Start(v)
	}
}

// Step hands the time a finishing step did not use to the next one, so a
// handover costs no frame time.
func (s *Sequence) Step(v *Value, dt time.Duration) bool {
	for s.idx < len(s.Steps) {
		step := s.Steps[s.idx]
		if !step.Step(v, dt) {
			return false
		}
		dt = leftover(step)
		s.idx++
		if s.idx >= len(s.Steps) {
			s.left = dt
			return true
		}
		s.Steps[s.idx].Start(v)
		if dt <= 0 {
			return false
		}
	}
	s.left = dt
	return true
}

func (s *Sequence) Leftover() time.Duration { return s.left }
