// Package threshold maps a horizontal drag offset to a decision zone.
//
// Classification is a pure function of the current offset: it keeps no state
// and may be called every frame.
package threshold

import (
	"fmt"
	"math"

	"github.com/aretw0/eventdeck/pkg/domain"
)

// Default is the commit distance in points.
const Default = 120.0

// Result is the classification of one offset.
type Result struct {
	Zone domain.Zone
	// Progress is |offset| / threshold clamped to [0, 1].
	Progress float64
	// Signed is Progress carrying the offset's sign: positive leans save.
	Signed float64
}

// Validate reports whether t can be used as a commit distance.
func Validate(t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidThreshold, t)
	}
	return nil
}

// Classify classifies offsetX against a symmetric threshold.
func Classify(offsetX, threshold float64) Result {
	return Classifier{Save: threshold, Skip: threshold}.Classify(offsetX)
}

// Classifier holds independent commit distances for each direction.
type Classifier struct {
	Save float64 // positive side
	Skip float64 // negative side, as a magnitude
}

// Symmetric returns a classifier using t on both sides.
func Symmetric(t float64) Classifier {
	return Classifier{Save: t, Skip: t}
}

// Validate checks both thresholds.
func (c Classifier) Validate() error {
	if err := Validate(c.Save); err != nil {
		return fmt.Errorf("save threshold: %w", err)
	}
	if err := Validate(c.Skip); err != nil {
		return fmt.Errorf("skip threshold: %w", err)
	}
	return nil
}

// For returns the threshold governing the side of offsetX.
func (c Classifier) For(offsetX float64) float64 {
	if offsetX < 0 {
		return c.Skip
	}
	return c.Save
}

// Classify maps offsetX to a zone. A NaN offset, or an invalid threshold on
// the offset's side, is NEUTRAL. The commit boundary is inclusive.
func (c Classifier) Classify(offsetX float64) Result {
	if math.IsNaN(offsetX) || offsetX == 0 {
		return Result{Zone: domain.ZoneNeutral}
	}
	t := c.For(offsetX)
	if Validate(t) != nil {
		return Result{Zone: domain.ZoneNeutral}
	}

	mag := math.Abs(offsetX)
	progress := math.Min(mag/t, 1)
	committed := mag >= t

	if offsetX > 0 {
		zone := domain.ZoneSaveLeaning
		if committed {
			zone = domain.ZoneCommittedSave
		}
		return Result{Zone: zone, Progress: progress, Signed: progress}
	}
	zone := domain.ZoneSkipLeaning
	if committed {
		zone = domain.ZoneCommittedSkip
	}
	return Result{Zone: zone, Progress: progress, Signed: -progress}
}
