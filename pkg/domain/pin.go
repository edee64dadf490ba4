package domain

// TokenPhase is the lifecycle of a decoration token. Phases never go backward.
type TokenPhase int

const (
	TokenFloating TokenPhase = iota
	TokenSnapping
	TokenAnchored
)

func (p TokenPhase) String() string {
	switch p {
	case TokenFloating:
		return "floating"
	case TokenSnapping:
		return "snapping"
	case TokenAnchored:
		return "anchored"
	}
	return "unknown"
}

// Pose is the placement of a decoration token on its card.
type Pose struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"` // degrees
	Scale    float64 `json:"scale"`
}
