// Package gesture implements the drag state machine of a single card.
//
// A Controller moves IDLE -> DRAGGING -> RELEASING -> SETTLED. The decision
// is fixed when the pointer is released and emitted exactly once, when the
// release animation completes. Every scheduled completion is tagged with the
// controller generation, so a completion that outlives the state it was
// scheduled for is dropped.
package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/motion"
	"github.com/aretw0/eventdeck/pkg/threshold"
)

// Controller owns the gesture state of one card. It is not safe for
// concurrent use; drive it from the goroutine that ticks its scheduler.
type Controller struct {
	id         string
	cfg        Config
	classifier threshold.Classifier
	sched      *frame.Scheduler
	logger     *slog.Logger
	hooks      domain.LifecycleHooks

	onSave    func()
	onSkip    func()
	onSettled func(domain.Decision)

	state    domain.GestureState
	decision domain.Decision
	disposed bool
	gen      frame.Generation

	x, y, rot *motion.Track
	base      domain.CardTransform // card placement when the pointer went down
	velocity  float64              // last valid horizontal velocity

	animation  *frame.Handle
	backstop   *frame.Handle
	superseded []*frame.Handle // backstops left to the generation guard
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnSave sets the callback run once when a gesture settles as SAVE.
func WithOnSave(fn func()) Option {
	return func(c *Controller) {
		c.onSave = fn
	}
}

// WithOnSkip sets the callback run once when a gesture settles as SKIP.
func WithOnSkip(fn func()) Option {
	return func(c *Controller) {
		c.onSkip = fn
	}
}

// WithOnSettled sets a callback run on every settle, including NONE.
func WithOnSettled(fn func(domain.Decision)) Option {
	return func(c *Controller) {
		c.onSettled = fn
	}
}

// WithLogger configures the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithID sets the identifier reported in logs and events.
func WithID(id string) Option {
	return func(c *Controller) {
		c.id = id
	}
}

// NewController creates a controller in IDLE.
func NewController(cfg Config, sched *frame.Scheduler, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gesture config: %w", err)
	}
	if cfg.MaxSettle == 0 {
		cfg.MaxSettle = DefaultMaxSettle
	}
	c := &Controller{
		id:         uuid.NewString(),
		cfg:        cfg,
		classifier: cfg.Classifier(),
		sched:      sched,
		logger:     logging.NewNop(),
		x:          motion.NewTrack(0),
		y:          motion.NewTrack(0),
		rot:        motion.NewTrack(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("card_id", c.id)
	return c, nil
}

// ID returns the controller identifier.
func (c *Controller) ID() string { return c.id }

// State returns the current gesture state.
func (c *Controller) State() domain.GestureState { return c.state }

// Decision returns the decision fixed at release, or NONE before it.
func (c *Controller) Decision() domain.Decision { return c.decision }

// Generation returns the current callback generation.
func (c *Controller) Generation() uint64 { return c.gen.Current() }

// Offset returns the current horizontal offset.
func (c *Controller) Offset() float64 { return c.x.Current }

// Classifier returns the classifier the controller decides with.
func (c *Controller) Classifier() threshold.Classifier { return c.classifier }

// Zone classifies the current offset.
func (c *Controller) Zone() domain.Zone {
	return c.classifier.Classify(c.x.Current).Zone
}

// Transform returns the current card placement.
func (c *Controller) Transform() domain.CardTransform {
	return domain.CardTransform{X: c.x.Current, Y: c.y.Current, Rotation: c.rot.Current}
}

// PointerDown starts a drag. During a snap-back it grabs the card where it
// is and supersedes the pending completion.
func (c *Controller) PointerDown(s domain.DragSample) error {
	if err := c.acceptInput(); err != nil {
		return err
	}
	switch c.state {
	case domain.GestureDragging:
		return nil
	case domain.GestureReleasing:
		if c.decision != domain.DecisionNone {
			return domain.ErrCommitInFlight
		}
		c.supersede()
	}

	c.base = c.Transform()
	c.velocity = 0
	c.decision = domain.DecisionNone
	c.setState(domain.GestureDragging)
	c.emit(c.hooks.OnGestureStart, domain.EventGestureStart)

	if !s.Positioned() {
		c.logger.Warn("dropping malformed drag sample", "sample", s)
		return nil
	}
	c.apply(s)
	return nil
}

// PointerMove updates the drag offset.
func (c *Controller) PointerMove(s domain.DragSample) error {
	if err := c.requireDragging(); err != nil {
		return err
	}
	if !s.Positioned() {
		c.logger.Warn("dropping malformed drag sample", "sample", s)
		return nil
	}
	c.apply(s)
	return nil
}

// PointerUp releases the card, applying s first when it is valid.
func (c *Controller) PointerUp(s domain.DragSample) error {
	if err := c.requireDragging(); err != nil {
		return err
	}
	if s.Positioned() {
		c.apply(s)
	} else {
		c.logger.Warn("dropping malformed drag sample", "sample", s)
	}
	c.release()
	return nil
}

// PointerCancel releases the card at its last offset. It decides exactly
// like PointerUp.
func (c *Controller) PointerCancel() error {
	if err := c.requireDragging(); err != nil {
		return err
	}
	c.release()
	return nil
}

// Dispose cancels every pending callback. The controller rejects input
// afterwards and never emits a decision.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.gen.Advance()
	c.animation.Cancel()
	c.backstop.Cancel()
	for _, h := range c.superseded {
		h.Cancel()
	}
	c.superseded = nil
	c.x.Stop()
	c.y.Stop()
	c.rot.Stop()
}

func (c *Controller) acceptInput() error {
	if c.disposed || c.state == domain.GestureSettled {
		return domain.ErrGestureSettled
	}
	return nil
}

func (c *Controller) requireDragging() error {
	if err := c.acceptInput(); err != nil {
		return err
	}
	if c.state != domain.GestureDragging {
		return domain.ErrNotDragging
	}
	return nil
}

// apply places the card for sample s: 1:1 horizontally, damped vertically,
// rotated proportionally to the horizontal travel.
// Non-finite vertical offsets keep the last y; non-finite velocities count as 0.
func (c *Controller) apply(s domain.DragSample) {
	if !s.Valid() {
		c.logger.Debug("ignoring non-finite sample fields", "sample", s)
	}
	x := c.base.X + s.OffsetX
	c.x.Set(x)
	if finite(s.OffsetY) {
		c.y.Set(c.base.Y + s.OffsetY*VerticalFollow)
	}
	c.rot.Set(x / c.cfg.ScreenWidth * DragRotation)
	c.velocity = 0
	if finite(s.VelocityX) {
		c.velocity = s.VelocityX
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// release fixes the decision from the last offset and starts the matching
// animation.
func (c *Controller) release() {
	offset := c.x.Current
	c.decision = domain.DecisionFor(c.classifier.Classify(offset).Zone)
	c.setState(domain.GestureReleasing)
	c.emit(c.hooks.OnDecision, domain.EventDecision)

	if c.decision == domain.DecisionNone {
		c.snapBack()
	} else {
		c.fling(offset)
	}
}

func (c *Controller) fling(offset float64) {
	sign := 1.0
	if c.decision == domain.DecisionSkip {
		sign = -1
	}
	dur := c.cfg.CommitDuration
	dist := math.Max(FlingFactor*c.cfg.ScreenWidth, math.Abs(offset)+math.Abs(c.velocity)*dur.Seconds())

	c.x.Animate(&motion.Timing{To: sign * dist, Duration: dur}, nil)
	c.rot.Animate(&motion.Timing{To: sign * FlingRotation, Duration: dur}, nil)
	c.run(2 * dur)
}

func (c *Controller) snapBack() {
	spring := func() motion.Driver {
		return &motion.Spring{Stiffness: c.cfg.SnapStiffness, Damping: c.cfg.SnapDamping}
	}
	c.x.Animate(spring(), nil)
	c.y.Animate(spring(), nil)
	c.rot.Animate(spring(), nil)
	c.run(c.cfg.MaxSettle)
}

// run steps the tracks every frame and settles once they all complete.
// The backstop settles regardless when no completion arrives in time.
func (c *Controller) run(backstop time.Duration) {
	done := c.gen.Guard(func() { c.settle(false) }, c.stale)
	c.animation = c.sched.EachFrame(func(dt time.Duration) {
		c.x.Step(dt)
		c.y.Step(dt)
		c.rot.Step(dt)
		if !c.x.Active() && !c.y.Active() && !c.rot.Active() {
			done()
		}
	})
	c.backstop = c.sched.After(backstop, c.gen.Guard(func() {
		c.logger.Warn("release animation did not complete, forcing settle",
			"gen", c.gen.Current(), "decision", c.decision)
		c.settle(true)
	}, c.stale))
}

// supersede abandons an in-flight snap-back. Its frame callback is cancelled;
// its backstop is left to trip the generation guard.
func (c *Controller) supersede() {
	c.gen.Advance()
	c.animation.Cancel()
	live := c.superseded[:0]
	for _, h := range c.superseded {
		if h.Active() {
			live = append(live, h)
		}
	}
	c.superseded = append(live, c.backstop)
	c.backstop = nil
	c.x.Stop()
	c.y.Stop()
	c.rot.Stop()
	c.logger.Debug("snap-back superseded", "gen", c.gen.Current())
}

func (c *Controller) settle(forced bool) {
	if c.state != domain.GestureReleasing {
		return
	}
	c.animation.Cancel()
	c.backstop.Cancel()
	if forced {
		c.x.Set(c.x.Target)
		c.y.Set(c.y.Target)
		c.rot.Set(c.rot.Target)
	}
	c.setState(domain.GestureSettled)
	c.emit(c.hooks.OnSettled, domain.EventSettled)

	switch c.decision {
	case domain.DecisionSave:
		if c.onSave != nil {
			c.onSave()
		}
	case domain.DecisionSkip:
		if c.onSkip != nil {
			c.onSkip()
		}
	}
	if c.onSettled != nil {
		c.onSettled(c.decision)
	}
}

func (c *Controller) stale() {
	c.logger.Debug("dropping stale completion", "gen", c.gen.Current(), "state", c.state)
	c.emit(c.hooks.OnStaleCallback, domain.EventStaleCallback)
}

func (c *Controller) setState(s domain.GestureState) {
	c.logger.Debug("gesture state", "from", c.state, "to", s, "gen", c.gen.Current())
	c.state = s
}

func (c *Controller) emit(hook func(context.Context, *domain.GestureEvent), typ domain.EventType) {
	if hook == nil {
		return
	}
	hook(context.Background(), &domain.GestureEvent{
		EventBase:  domain.EventBase{Timestamp: c.sched.Now(), Type: typ},
		CardID:     c.id,
		Generation: c.gen.Current(),
		State:      c.state,
		Decision:   c.decision,
		OffsetX:    c.x.Current,
		Threshold:  c.classifier.For(c.x.Current),
	})
}
