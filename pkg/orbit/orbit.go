// Package orbit animates member avatars circling an ellipse around a card.
//
// Members ease in one after another; the continuous rotation starts only once
// the last entry is scheduled to finish and runs until Stop.
package orbit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/motion"
)

// Config holds the orbit geometry and timing.
type Config struct {
	RadiusX    float64
	RadiusY    float64
	AvatarSize float64
	Period     time.Duration // one full rotation
	EntryStep  time.Duration // delay between member entries
	EntryTail  time.Duration // extra wait after the last entry starts
}

// DefaultConfig returns the stock orbit.
func DefaultConfig() Config {
	return Config{
		RadiusX:    160,
		RadiusY:    200,
		AvatarSize: 50,
		Period:     12 * time.Second,
		EntryStep:  150 * time.Millisecond,
		EntryTail:  300 * time.Millisecond,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	var errs []error
	if c.Period <= 0 {
		errs = append(errs, fmt.Errorf("period must be positive, got %v", c.Period))
	}
	if c.EntryStep < 0 || c.EntryTail < 0 {
		errs = append(errs, fmt.Errorf("entry delays must not be negative"))
	}
	if c.RadiusX < 0 || c.RadiusY < 0 {
		errs = append(errs, fmt.Errorf("radii must not be negative"))
	}
	return errors.Join(errs...)
}

// StartDelay is the time from Start to the first rotation frame for n members.
func (c Config) StartDelay(n int) time.Duration {
	return time.Duration(n)*c.EntryStep + c.EntryTail
}

// Member is one orbiting avatar.
type Member struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Position is the rendered placement of one member, relative to the centre.
type Position struct {
	Member  Member  `json:"member"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	// Front is true when the member passes in front of the card.
	Front bool `json:"front"`
}

// Animator owns the entry progress of every member and the shared phase.
type Animator struct {
	cfg     Config
	sched   *frame.Scheduler
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	members []Member

	entries  []*motion.Track
	progress []float64 // reported, monotone in [0, 1]
	phase    float64   // degrees in [0, 360)
	rotating bool
	rotStart time.Time
	started  bool

	handles []*frame.Handle
}

// Option configures an Animator.
type Option func(*Animator)

// WithLogger configures the animator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Animator) {
		a.hooks = hooks
	}
}

// New creates an animator for members. Nothing moves until Start.
func New(members []Member, cfg Config, sched *frame.Scheduler, opts ...Option) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid orbit config: %w", err)
	}
	a := &Animator{
		cfg:      cfg,
		sched:    sched,
		logger:   logging.NewNop(),
		members:  append([]Member(nil), members...),
		entries:  make([]*motion.Track, len(members)),
		progress: make([]float64, len(members)),
	}
	for i := range a.entries {
		a.entries[i] = motion.NewTrack(0)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Start schedules the member entries and the rotation. Repeated calls are ignored.
func (a *Animator) Start() {
	if a.started {
		return
	}
	a.started = true

	for i := range a.members {
		tr := a.entries[i]
		a.handles = append(a.handles, a.sched.After(time.Duration(i)*a.cfg.EntryStep, func() {
			tr.Animate(&motion.Spring{To: 1, Stiffness: 80, Damping: 12}, nil)
		}))
	}

	delay := a.cfg.StartDelay(len(a.members))
	a.handles = append(a.handles,
		a.sched.EachFrame(a.step),
		a.sched.After(delay, func() {
			a.rotating = true
			a.rotStart = a.sched.Now()
			a.logger.Debug("orbit rotation started", "members", len(a.members), "delay", delay)
			if a.hooks.OnOrbitStart != nil {
				a.hooks.OnOrbitStart(context.Background(), &domain.OrbitEvent{
					EventBase: domain.EventBase{Timestamp: a.sched.Now(), Type: domain.EventOrbitStart},
					Members:   len(a.members),
					Delay:     delay,
				})
			}
		}),
	)
}

// Stop cancels the entries and the rotation. The last pose is kept.
func (a *Animator) Stop() {
	for _, h := range a.handles {
		h.Cancel()
	}
	a.handles = nil
	for _, tr := range a.entries {
		tr.Stop()
	}
	a.rotating = false
}

// Phase returns the rotation angle in degrees.
func (a *Animator) Phase() float64 { return a.phase }

// Rotating reports whether the continuous rotation runs.
func (a *Animator) Rotating() bool { return a.rotating }

// Entries returns the entry progress of every member.
func (a *Animator) Entries() []float64 {
	return append([]float64(nil), a.progress...)
}

// Positions returns the placement of every member for the current frame.
func (a *Animator) Positions() []Position {
	n := len(a.members)
	out := make([]Position, n)
	for i, m := range a.members {
		angle := a.phase + 360/float64(n)*float64(i)
		rad := angle * math.Pi / 180
		sin, cos := math.Sin(rad), math.Cos(rad)
		p := a.progress[i]
		depth := 0.7 + 0.3*(sin+1)/2
		out[i] = Position{
			Member:  m,
			X:       cos * a.cfg.RadiusX * p,
			Y:       sin * a.cfg.RadiusY * p,
			Scale:   depth * p,
			Opacity: p,
			Front:   sin > 0,
		}
	}
	return out
}

func (a *Animator) step(dt time.Duration) {
	for i, tr := range a.entries {
		if a.progress[i] >= 1 {
			continue
		}
		tr.Step(dt)
		a.progress[i] = math.Max(a.progress[i], motion.Clamp(tr.Current, 0, 1))
		if !tr.Active() && tr.Target == 1 {
			a.progress[i] = 1
		}
	}
	if a.rotating {
		// Derived from the start time so long runs do not drift.
		turns := a.sched.Now().Sub(a.rotStart).Seconds() / a.cfg.Period.Seconds()
		a.phase = math.Mod(360*turns, 360)
	}
}
