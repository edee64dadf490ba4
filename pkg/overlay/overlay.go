// Package overlay derives the decoration state of a dragged card: the save
// and skip indicators, the border glow and the preview of the next card.
//
// Everything is recomputed from the current offset; the presenter has no
// memory of previous frames.
package overlay

import (
	"math"

	"github.com/aretw0/eventdeck/pkg/motion"
	"github.com/aretw0/eventdeck/pkg/threshold"
)

// Indicator is the state of one directional badge.
type Indicator struct {
	Opacity float64
	Scale   float64
}

// Glow is the border highlight of the dragged card.
type Glow struct {
	Color RGBA
	Width float64
}

// Preview is the state of the card waiting below the dragged one.
type Preview struct {
	Scale   float64
	Opacity float64
}

// State is one frame of overlay output.
type State struct {
	Save Indicator
	Skip Indicator
	Glow Glow
	Next Preview
}

// Presenter computes overlay states for a threshold and a pair of colours.
type Presenter struct {
	Threshold threshold.Classifier
	SaveColor RGBA
	SkipColor RGBA
}

// NewPresenter returns a presenter with a symmetric threshold and the default
// glow colours.
func NewPresenter(t float64) Presenter {
	return Presenter{
		Threshold: threshold.Symmetric(t),
		SaveColor: SaveGlow,
		SkipColor: SkipGlow,
	}
}

// Present computes the overlay for offsetX. A NaN offset renders as rest.
func (p Presenter) Present(offsetX float64) State {
	if math.IsNaN(offsetX) {
		offsetX = 0
	}
	r := p.Threshold.Classify(offsetX)

	var save, skip float64
	if r.Signed > 0 {
		save = r.Progress
	} else if r.Signed < 0 {
		skip = r.Progress
	}

	return State{
		Save: indicator(save),
		Skip: indicator(skip),
		Glow: Glow{
			Color: p.glowColor(offsetX),
			Width: 3 * math.Max(save, skip),
		},
		Next: Preview{
			Scale:   0.95 + 0.05*r.Progress,
			Opacity: 0.5 + 0.5*r.Progress,
		},
	}
}

func indicator(opacity float64) Indicator {
	return Indicator{Opacity: opacity, Scale: motion.Lerp(0.5, 1, opacity)}
}

// glowColor interpolates skip colour, transparent and save colour across
// [-skip threshold, 0, save threshold], clamped at both ends.
func (p Presenter) glowColor(x float64) RGBA {
	switch {
	case x > 0:
		t := p.Threshold.Save
		if !(t > 0) {
			return Transparent
		}
		return Blend(Transparent, p.SaveColor, x/t)
	case x < 0:
		t := p.Threshold.Skip
		if !(t > 0) {
			return Transparent
		}
		return Blend(Transparent, p.SkipColor, -x/t)
	}
	return Transparent
}
