package toggle

import (
	"fmt"

	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/motion"
)

// Indicator bounds, as a fraction of the track width.
const (
	IndicatorStart = 0.02
	IndicatorEnd   = 0.5
)

// ModeToggle is a controlled two-state switch. Select only requests a
// change; the owner applies it through SetMode.
type ModeToggle struct {
	mode     domain.FeedMode
	onChange func(domain.FeedMode)
	slide    *motion.Track
	stepper  *stepper
}

// NewModeToggle creates a toggle showing mode.
func NewModeToggle(mode domain.FeedMode, onChange func(domain.FeedMode), sched *frame.Scheduler) *ModeToggle {
	if !mode.Valid() {
		mode = domain.FeedModeEvents
	}
	t := &ModeToggle{
		mode:     mode,
		onChange: onChange,
		slide:    motion.NewTrack(slideTarget(mode)),
	}
	t.stepper = &stepper{sched: sched, tracks: []*motion.Track{t.slide}}
	return t
}

func slideTarget(m domain.FeedMode) float64 {
	if m == domain.FeedModeLent {
		return 1
	}
	return 0
}

// Mode returns the mode currently shown.
func (t *ModeToggle) Mode() domain.FeedMode { return t.mode }

// Select reports a user choice. onModeChange runs only when mode differs.
func (t *ModeToggle) Select(mode domain.FeedMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown feed mode %q", mode)
	}
	if mode == t.mode {
		return nil
	}
	if t.onChange != nil {
		t.onChange(mode)
	}
	return nil
}

// SetMode applies the controlled value and slides the indicator to it.
func (t *ModeToggle) SetMode(mode domain.FeedMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown feed mode %q", mode)
	}
	if mode == t.mode {
		return nil
	}
	t.mode = mode
	t.slide.Animate(motion.Origami(slideTarget(mode), 60, 10), nil)
	t.stepper.kick()
	return nil
}

// Indicator returns the left edge of the sliding indicator as a fraction of
// the track width, within [IndicatorStart, IndicatorEnd].
func (t *ModeToggle) Indicator() float64 {
	return motion.Interpolate(t.slide.Current, []float64{0, 1}, []float64{IndicatorStart, IndicatorEnd})
}

// Animating reports whether the indicator is moving.
func (t *ModeToggle) Animating() bool { return t.slide.Active() }

// Dispose stops the indicator animation.
func (t *ModeToggle) Dispose() { t.stepper.stop() }
