/*
Package eventdeck is a headless interaction engine for a "swipe to discover events" experience.

It owns the behaviour behind a stack of event cards: dragging a card, deciding
whether a release saves it, skips it or returns it home, animating the card
away, pinning a decoration onto the user's card for every save, and the small
presenters around the stack (feed mode toggle, fresh-data banner, member
orbit). Rendering is left to the host; every component exposes plain values a
renderer can draw each frame.

# Concept

All animation runs on one cooperative frame scheduler. Components register
timers and per-frame callbacks on it and never start goroutines of their own,
so a host either ticks the scheduler from its event loop or hands it to a
frame.Loop. Tests drive it with a frame.ManualClock and get fully
deterministic timelines.

A card gesture moves IDLE -> DRAGGING -> RELEASING -> SETTLED. The decision
is fixed when the pointer is released and reported exactly once, when the
release animation completes. Completions scheduled for a superseded gesture
are dropped.

# Usage

	eng, err := eventdeck.New()
	if err != nil {
		log.Fatal(err)
	}

	deck, err := eng.NewDeck(ctx, eventdeck.Feeds{
		domain.FeedModeEvents: cards,
	}, "session-123")
	if err != nil {
		log.Fatal(err)
	}
	defer deck.Close()

	loop := eng.Loop(frame.WithAfterTick(func() {
		draw(deck.Snapshot())
	}))
	go loop.Run(ctx)

	// From input handlers, on the loop goroutine:
	loop.Post(func() { _ = deck.PointerDown(domain.DragSample{}) })

# Observability

Components accept domain.LifecycleHooks. The observability package binds
them to Prometheus collectors and to structured logs.
*/
package eventdeck
