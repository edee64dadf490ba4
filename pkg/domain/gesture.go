package domain

import "math"

// DragSample is a single pointer reading produced while a card is dragged.
// Offsets are measured from the point where the pointer went down.
type DragSample struct {
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	VelocityX   float64 `json:"velocity_x"`
	TimestampMs int64   `json:"timestamp_ms"`
}

// Valid reports whether every coordinate of the sample is a finite number.
func (s DragSample) Valid() bool {
	return finite(s.OffsetX) && finite(s.OffsetY) && finite(s.VelocityX)
}

// Positioned reports whether the horizontal offset is a finite number.
// Only such samples move the card; other non-finite fields are ignored.
func (s DragSample) Positioned() bool {
	return finite(s.OffsetX)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Zone is the categorical region of a drag offset relative to the threshold.
type Zone int

const (
	ZoneNeutral Zone = iota
	ZoneSaveLeaning
	ZoneSkipLeaning
	ZoneCommittedSave
	ZoneCommittedSkip
)

// Committed reports whether the zone is past the commit threshold.
func (z Zone) Committed() bool {
	return z == ZoneCommittedSave || z == ZoneCommittedSkip
}

func (z Zone) String() string {
	switch z {
	case ZoneNeutral:
		return "neutral"
	case ZoneSaveLeaning:
		return "save_leaning"
	case ZoneSkipLeaning:
		return "skip_leaning"
	case ZoneCommittedSave:
		return "committed_save"
	case ZoneCommittedSkip:
		return "committed_skip"
	}
	return "unknown"
}

// GestureState is owned exclusively by the controller bound to one card.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureReleasing
	GestureSettled // Terminal: the controller is discarded afterwards
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureReleasing:
		return "releasing"
	case GestureSettled:
		return "settled"
	}
	return "unknown"
}

// Decision is the outcome of a gesture. It is fixed at release and emitted
// exactly once, when the gesture settles.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionSave
	DecisionSkip
)

func (d Decision) String() string {
	switch d {
	case DecisionNone:
		return "none"
	case DecisionSave:
		return "save"
	case DecisionSkip:
		return "skip"
	}
	return "unknown"
}

// DecisionFor maps a committed zone to its decision.
func DecisionFor(z Zone) Decision {
	switch z {
	case ZoneCommittedSave:
		return DecisionSave
	case ZoneCommittedSkip:
		return DecisionSkip
	}
	return DecisionNone
}

// CardTransform is the visual placement of the dragged card.
type CardTransform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // degrees
}
