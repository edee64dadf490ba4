package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGestureStart  EventType = "gesture_start"
	EventDecision      EventType = "decision"
	EventSettled       EventType = "settled"
	EventStaleCallback EventType = "stale_callback"
	EventTokenPhase    EventType = "token_phase"
	EventOrbitStart    EventType = "orbit_start"
	EventAnalysis      EventType = "analysis"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GestureEvent describes a gesture lifecycle step of one card controller.
type GestureEvent struct {
	EventBase
	CardID     string       `json:"card_id"`
	Generation uint64       `json:"generation"`
	State      GestureState `json:"state"`
	Decision   Decision     `json:"decision"`
	OffsetX    float64      `json:"offset_x"`
	Threshold  float64      `json:"threshold"`
}

// TokenEvent describes a phase change of a decoration token.
type TokenEvent struct {
	EventBase
	Index   int           `json:"index"`
	Phase   TokenPhase    `json:"phase"`
	Elapsed time.Duration `json:"elapsed"` // since spawn
}

// OrbitEvent is emitted when the continuous orbit rotation begins.
type OrbitEvent struct {
	EventBase
	Members int           `json:"members"`
	Delay   time.Duration `json:"delay"` // since Start
}

// AnalysisEvent reports one call to the image-analysis collaborator.
type AnalysisEvent struct {
	EventBase
	Endpoint string        `json:"endpoint"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnGestureStart  func(context.Context, *GestureEvent)
	OnDecision      func(context.Context, *GestureEvent) // decision fixed at release
	OnSettled       func(context.Context, *GestureEvent)
	OnStaleCallback func(context.Context, *GestureEvent)
	OnTokenPhase    func(context.Context, *TokenEvent)
	OnOrbitStart    func(context.Context, *OrbitEvent)
	OnAnalysis      func(context.Context, *AnalysisEvent)
}
