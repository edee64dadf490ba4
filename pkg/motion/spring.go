package motion

import "time"

// Default spring parameters.
const (
	DefaultStiffness = 100.0
	DefaultDamping   = 10.0
	DefaultMass      = 1.0
)

// maxSubstep bounds the integration step so stiff, light springs stay stable
// at any frame rate.
const maxSubstep = time.Millisecond

// Spring is a damped harmonic motion towards To.
// Zero fields take the defaults above; a zero Rest takes DefaultTolerance.
type Spring struct {
	To        float64
	Stiffness float64
	Damping   float64
	Mass      float64
	Rest      Tolerance

	left time.Duration
}

func (s *Spring) params() (k, c, m float64) {
	k, c, m = s.Stiffness, s.Damping, s.Mass
	if k <= 0 {
		k = DefaultStiffness
	}
	if c <= 0 {
		c = DefaultDamping
	}
	if m <= 0 {
		m = DefaultMass
	}
	return k, c, m
}

func (s *Spring) Start(v *Value) {
	s.left = 0
	v.Target = s.To
}

// Step integrates with semi-implicit Euler in substeps of at most maxSubstep.
// It stops at the first substep that comes to rest.
func (s *Spring) Step(v *Value, dt time.Duration) bool {
	k, c, m := s.params()
	tol := s.Rest.orDefault()
	remaining := dt
	for remaining > 0 {
		step := min(remaining, maxSubstep)
		h := step.Seconds()
		accel := (-k*(v.Current-v.Target) - c*v.Velocity) / m
		v.Velocity += accel * h
		v.Current += v.Velocity * h
		remaining -= step
		if tol.AtRest(*v) {
			break
		}
	}
	if tol.AtRest(*v) {
		s.left = remaining
		rest(v)
		return true
	}
	return false
}

func (s *Spring) Leftover() time.Duration { return s.left }

// Origami converts a tension/friction pair, as used by classic mobile spring
// APIs, into a spring with equivalent stiffness and damping.
func Origami(to, tension, friction float64) *Spring {
	return &Spring{
		To:        to,
		Stiffness: (tension-30)*3.62 + 194,
		Damping:   (friction-8)*3 + 25,
	}
}
