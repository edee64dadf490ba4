package runtime

import (
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/overlay"
)

// PinView is one pin token as drawn on the user's card.
type PinView struct {
	Index int
	Phase domain.TokenPhase
	Pose  domain.Pose
}

// BannerView is the fresh-data banner as drawn.
type BannerView struct {
	Rendered bool
	Message  string
	Offset   float64
	Opacity  float64
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	Mode          domain.FeedMode
	ModeIndicator float64

	// Card is nil once the deck is exhausted. Next is the card underneath.
	Card  *domain.Card
	Next  *domain.Card
	Index int
	Total int

	Gesture   domain.GestureState
	Decision  domain.Decision
	Zone      domain.Zone
	Transform domain.CardTransform
	Overlay   overlay.State

	Pins   []PinView
	Banner BannerView

	Saved   int
	Skipped int
}

// Snapshot captures the current frame.
func (d *Deck) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:          d.mode,
		ModeIndicator: d.toggle.Indicator(),
		Index:         d.index,
		Total:         len(d.cards),
		Overlay:       d.presenter.Present(0),
		Saved:         len(d.tally.Saved),
		Skipped:       len(d.tally.Skipped),
		Banner: BannerView{
			Rendered: d.banner.Rendered(),
			Message:  d.banner.Message(),
			Offset:   d.banner.Offset(),
			Opacity:  d.banner.Opacity(),
		},
	}
	if card, ok := d.Current(); ok {
		snap.Card = &card
	}
	if d.index+1 < len(d.cards) {
		next := d.cards[d.index+1]
		snap.Next = &next
	}
	if d.ctrl != nil {
		snap.Gesture = d.ctrl.State()
		snap.Decision = d.ctrl.Decision()
		snap.Zone = d.ctrl.Zone()
		snap.Transform = d.ctrl.Transform()
		snap.Overlay = d.presenter.Present(snap.Transform.X)
	}
	for _, tok := range d.pins.Tokens() {
		snap.Pins = append(snap.Pins, PinView{
			Index: tok.Index(),
			Phase: tok.Phase(),
			Pose:  tok.Pose(),
		})
	}
	return snap
}
