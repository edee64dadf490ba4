package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/eventdeck/pkg/threshold"
)

// Default interaction constants, in points and degrees.
const (
	DefaultScreenWidth    = 400.0
	DefaultCommitDuration = 250 * time.Millisecond
	DefaultMaxSettle      = 3 * time.Second

	// FlingFactor sets the minimum commit travel as a multiple of the screen width.
	FlingFactor = 1.5
	// FlingRotation is the rotation reached at the end of a commit.
	FlingRotation = 15.0
	// DragRotation is the rotation of a card dragged one full screen width.
	DragRotation = 20.0
	// VerticalFollow scales the vertical pointer delta.
	VerticalFollow = 0.5
)

// Config holds the tunables of one card controller.
type Config struct {
	// Threshold is the commit distance towards save (right).
	Threshold float64
	// SkipThreshold is the commit distance towards skip (left). Zero uses Threshold.
	SkipThreshold float64
	// ScreenWidth drives the fling distance and drag rotation.
	ScreenWidth float64
	// CommitDuration is the fixed length of the fling-through animation.
	CommitDuration time.Duration
	// SnapStiffness and SnapDamping shape the snap-back spring. Zero uses
	// the motion package defaults.
	SnapStiffness float64
	SnapDamping   float64
	// MaxSettle bounds the snap-back animation; past it the card is forced home.
	MaxSettle time.Duration
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:      threshold.Default,
		ScreenWidth:    DefaultScreenWidth,
		CommitDuration: DefaultCommitDuration,
		MaxSettle:      DefaultMaxSettle,
	}
}

// Classifier returns the threshold classifier described by the config.
func (c Config) Classifier() threshold.Classifier {
	skip := c.SkipThreshold
	if skip == 0 {
		skip = c.Threshold
	}
	return threshold.Classifier{Save: c.Threshold, Skip: skip}
}

// Validate checks the config for values the controller cannot work with.
func (c Config) Validate() error {
	var errs []error
	if err := c.Classifier().Validate(); err != nil {
		errs = append(errs, err)
	}
	if !(c.ScreenWidth > 0) {
		errs = append(errs, fmt.Errorf("screen width must be positive, got %v", c.ScreenWidth))
	}
	if c.CommitDuration <= 0 {
		errs = append(errs, fmt.Errorf("commit duration must be positive, got %v", c.CommitDuration))
	}
	if c.MaxSettle < 0 {
		errs = append(errs, fmt.Errorf("max settle must not be negative, got %v", c.MaxSettle))
	}
	return errors.Join(errs...)
}
