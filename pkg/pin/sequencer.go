// Package pin runs the choreography of the decoration token that snaps onto
// a saved card.
//
// A fresh token floats over the card while the flip plays, then snaps to its
// stacking anchor with an overshooting scale. Tokens restored from earlier
// saves appear anchored without animating.
package pin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/motion"
)

// Token is one pin bound to a stacking index.
type Token struct {
	index   int
	anchor  domain.Pose
	phase   domain.TokenPhase
	spawned time.Time
	settled time.Duration

	x, y, rot, scale *motion.Track

	handles []*frame.Handle
}

// Index returns the stacking index.
func (t *Token) Index() int { return t.index }

// Phase returns the current lifecycle phase.
func (t *Token) Phase() domain.TokenPhase { return t.phase }

// Anchor returns the resting pose.
func (t *Token) Anchor() domain.Pose { return t.anchor }

// SettleTime returns how long after spawn the token anchored, zero until then.
func (t *Token) SettleTime() time.Duration { return t.settled }

// Pose returns the current placement.
func (t *Token) Pose() domain.Pose {
	return domain.Pose{
		X:        t.anchor.X + t.x.Current,
		Y:        t.anchor.Y + t.y.Current,
		Rotation: t.rot.Current,
		Scale:    t.scale.Current,
	}
}

func (t *Token) tracks() []*motion.Track {
	return []*motion.Track{t.x, t.y, t.rot, t.scale}
}

func (t *Token) moving() bool {
	for _, tr := range t.tracks() {
		if tr.Active() {
			return true
		}
	}
	return false
}

func (t *Token) cancel() {
	for _, h := range t.handles {
		h.Cancel()
	}
	t.handles = nil
	for _, tr := range t.tracks() {
		tr.Stop()
	}
}

// Sequencer owns the tokens of one card, keyed by stacking index.
type Sequencer struct {
	cfg    Config
	sched  *frame.Scheduler
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	gen    frame.Generation

	tokens map[int]*Token
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger configures the sequencer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Sequencer) {
		s.hooks = hooks
	}
}

// NewSequencer creates a sequencer without tokens.
func NewSequencer(cfg Config, sched *frame.Scheduler, opts ...Option) (*Sequencer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pin config: %w", err)
	}
	s := &Sequencer{
		cfg:    cfg,
		sched:  sched,
		logger: logging.NewNop(),
		tokens: make(map[int]*Token),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Spawn creates the token for index. A fresh token (isNew) runs the full
// choreography; otherwise it is anchored immediately.
func (s *Sequencer) Spawn(index int, isNew bool) (*Token, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}
	if _, ok := s.tokens[index]; ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrTokenExists, index)
	}

	tok := &Token{
		index:   index,
		anchor:  s.cfg.Anchor(index),
		spawned: s.sched.Now(),
	}
	s.tokens[index] = tok

	if !isNew {
		tok.x, tok.y, tok.rot, tok.scale = motion.NewTrack(0), motion.NewTrack(0), motion.NewTrack(0), motion.NewTrack(1)
		s.setPhase(tok, domain.TokenAnchored)
		return tok, nil
	}

	tok.x = motion.NewTrack(FloatingPose.X)
	tok.y = motion.NewTrack(FloatingPose.Y)
	tok.rot = motion.NewTrack(FloatingPose.Rotation)
	tok.scale = motion.NewTrack(FloatingPose.Scale)
	s.setPhase(tok, domain.TokenFloating)

	if s.cfg.BobCycles > 0 && s.cfg.BobAmplitude != 0 {
		tok.y.Animate(&motion.Oscillation{
			Amplitude: s.cfg.BobAmplitude,
			Period:    s.cfg.FlipDuration / time.Duration(s.cfg.BobCycles),
			Cycles:    s.cfg.BobCycles,
		}, nil)
	}

	tok.handles = append(tok.handles,
		s.sched.EachFrame(func(dt time.Duration) { s.step(tok, dt) }),
		s.sched.After(s.cfg.FlipDuration, s.gen.Guard(func() { s.snap(tok) }, nil)),
	)
	return tok, nil
}

// Token returns the token at index.
func (s *Sequencer) Token(index int) (*Token, bool) {
	tok, ok := s.tokens[index]
	return tok, ok
}

// Tokens returns all tokens ordered by index.
func (s *Sequencer) Tokens() []*Token {
	out := make([]*Token, 0, len(s.tokens))
	for _, tok := range s.tokens {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// Dispose cancels every pending animation. Tokens keep their last pose.
func (s *Sequencer) Dispose() {
	s.gen.Advance()
	for _, tok := range s.tokens {
		tok.cancel()
	}
}

func (s *Sequencer) step(tok *Token, dt time.Duration) {
	for _, tr := range tok.tracks() {
		tr.Step(dt)
	}
	if tok.phase == domain.TokenSnapping && !tok.moving() {
		s.anchor(tok, false)
	}
}

// snap starts the magnetic motion towards the anchor.
func (s *Sequencer) snap(tok *Token) {
	if tok.phase != domain.TokenFloating {
		return
	}
	pos := snapPosition
	tok.x.Animate(&pos, nil)
	posY := snapPosition
	tok.y.Animate(&posY, nil)
	rot := snapRotation
	tok.rot.Animate(&rot, nil)
	tok.scale.Animate(motion.Seq(
		&motion.Spring{To: 0.9, Stiffness: 400, Damping: 15},
		&motion.Spring{To: 1.1, Stiffness: 300, Damping: 10},
		&motion.Spring{To: 1.0, Stiffness: 200, Damping: 12},
	), nil)
	s.setPhase(tok, domain.TokenSnapping)

	tok.handles = append(tok.handles, s.sched.After(s.cfg.SnapTimeout, s.gen.Guard(func() {
		s.anchor(tok, true)
	}, nil)))
}

func (s *Sequencer) anchor(tok *Token, forced bool) {
	if tok.phase != domain.TokenSnapping {
		return
	}
	if forced {
		s.logger.Warn("pin snap did not settle, forcing anchor", "index", tok.index)
	}
	tok.cancel()
	tok.x.Set(0)
	tok.y.Set(0)
	tok.rot.Set(0)
	tok.scale.Set(1)
	tok.settled = s.sched.Now().Sub(tok.spawned)
	s.setPhase(tok, domain.TokenAnchored)
}

func (s *Sequencer) setPhase(tok *Token, p domain.TokenPhase) {
	tok.phase = p
	elapsed := s.sched.Now().Sub(tok.spawned)
	s.logger.Debug("pin phase", "index", tok.index, "phase", p, "elapsed", elapsed)
	if s.hooks.OnTokenPhase != nil {
		s.hooks.OnTokenPhase(context.Background(), &domain.TokenEvent{
			EventBase: domain.EventBase{Timestamp: s.sched.Now(), Type: domain.EventTokenPhase},
			Index:     tok.index,
			Phase:     p,
			Elapsed:   elapsed,
		})
	}
}
