package eventdeck_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/eventdeck"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
)

// ExampleEngine_NewDeck swipes the top card past the save threshold on a
// manual clock and reads the result back from the deck.
func ExampleEngine_NewDeck() {
	clock := frame.NewManualClock(time.Unix(0, 0))
	eng, err := eventdeck.New(eventdeck.WithClock(clock))
	if err != nil {
		log.Fatal(err)
	}

	deck, err := eng.NewDeck(context.Background(), eventdeck.Feeds{
		domain.FeedModeEvents: {
			{ID: "jazz", Title: "Jazz en el parque"},
			{ID: "market", Title: "Mercado de artesanos"},
		},
	}, "demo")
	if err != nil {
		log.Fatal(err)
	}
	defer deck.Close()

	_ = deck.PointerDown(domain.DragSample{})
	_ = deck.PointerMove(domain.DragSample{OffsetX: 150})
	_ = deck.PointerUp(domain.DragSample{OffsetX: 150})

	for i := 0; i < 30; i++ {
		clock.Advance(16 * time.Millisecond)
		eng.Scheduler().Tick()
	}

	snap := deck.Snapshot()
	fmt.Println("saved:", deck.Tally().Saved)
	fmt.Println("next:", snap.Card.Title)
	fmt.Println("pins:", len(snap.Pins))
	// Output:
	// saved: [jazz]
	// next: Mercado de artesanos
	// pins: 1
}
