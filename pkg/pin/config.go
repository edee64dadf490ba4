package pin

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/motion"
)

// DefaultFlipDuration is the length of the card flip the token hovers through.
const DefaultFlipDuration = 600 * time.Millisecond

// FloatingPose is the spawn pose of a fresh token, relative to its anchor.
var FloatingPose = domain.Pose{X: 60, Y: -80, Rotation: 8, Scale: 1.2}

// Snap motion profile.
var (
	snapPosition = motion.Spring{Stiffness: 500, Damping: 5, Mass: 0.2}
	snapRotation = motion.Spring{Stiffness: 300, Damping: 6}
)

// Config holds the choreography tunables.
type Config struct {
	FlipDuration time.Duration
	// Base and Stride place the token with index i at Base + i*Stride on both axes.
	Base   float64
	Stride float64
	// BobAmplitude and BobCycles shape the hover while floating.
	BobAmplitude float64
	BobCycles    int
	// SnapTimeout bounds the snap; past it the token is forced to its anchor.
	SnapTimeout time.Duration
}

// DefaultConfig returns the stock choreography.
func DefaultConfig() Config {
	return Config{
		FlipDuration: DefaultFlipDuration,
		Base:         8,
		Stride:       3,
		BobAmplitude: 5,
		BobCycles:    3,
		SnapTimeout:  4 * time.Second,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	var errs []error
	if c.FlipDuration <= 0 {
		errs = append(errs, fmt.Errorf("flip duration must be positive, got %v", c.FlipDuration))
	}
	if c.Stride < 0 {
		errs = append(errs, fmt.Errorf("stride must not be negative, got %v", c.Stride))
	}
	if c.BobCycles < 0 {
		errs = append(errs, fmt.Errorf("bob cycles must not be negative, got %d", c.BobCycles))
	}
	if c.SnapTimeout <= 0 {
		errs = append(errs, fmt.Errorf("snap timeout must be positive, got %v", c.SnapTimeout))
	}
	return errors.Join(errs...)
}

// Anchor returns the resting pose for stacking index i.
func (c Config) Anchor(i int) domain.Pose {
	off := c.Base + float64(i)*c.Stride
	return domain.Pose{X: off, Y: off, Rotation: 0, Scale: 1}
}
