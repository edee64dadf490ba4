package domain

import "time"

// FeedMode selects which feed the deck shows.
type FeedMode string

const (
	FeedModeEvents FeedMode = "events"
	FeedModeLent   FeedMode = "lent"
)

// Valid reports whether the mode is one of the two known modes.
func (m FeedMode) Valid() bool {
	return m == FeedModeEvents || m == FeedModeLent
}

// Card is one event shown in the swipe stack.
// Only the identity matters to the engine; the rest is carried for hosts.
type Card struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
	Time        string `json:"time,omitempty" yaml:"time,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Tally records the decisions taken during one session.
type Tally struct {
	SessionID string    `json:"session_id"`
	Saved     []string  `json:"saved"`
	Skipped   []string  `json:"skipped"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTally creates an empty tally for a session.
func NewTally(sessionID string) *Tally {
	return &Tally{
		SessionID: sessionID,
		Saved:     []string{},
		Skipped:   []string{},
	}
}

// NextPinIndex is the stacking index for the pin of the next save:
// the number of saves recorded so far.
func (t *Tally) NextPinIndex() int {
	return len(t.Saved)
}

// Record appends the card to the list matching the decision.
// DecisionNone leaves the tally untouched.
func (t *Tally) Record(cardID string, d Decision, at time.Time) {
	switch d {
	case DecisionSave:
		t.Saved = append(t.Saved, cardID)
	case DecisionSkip:
		t.Skipped = append(t.Skipped, cardID)
	default:
		return
	}
	t.UpdatedAt = at
}

// Snapshot returns a deep copy of the tally.
func (t *Tally) Snapshot() *Tally {
	if t == nil {
		return nil
	}
	c := *t
	c.Saved = append([]string(nil), t.Saved...)
	c.Skipped = append([]string(nil), t.Skipped...)
	return &c
}
