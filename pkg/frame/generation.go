package frame

// Generation tags scheduled callbacks with the state they were scheduled for.
// Advancing it turns every previously guarded callback into a no-op.
type Generation struct {
	n uint64
}

// Current returns the current generation.
func (g *Generation) Current() uint64 {
	return g.n
}

// Advance invalidates all outstanding guarded callbacks.
func (g *Generation) Advance() uint64 {
	g.n++
	return g.n
}

// Guard wraps fn so it only runs while the generation is unchanged.
// onStale, if not nil, runs instead when the guard trips.
func (g *Generation) Guard(fn func(), onStale func()) func() {
	gen := g.n
	return func() {
		if g.n != gen {
			if onStale != nil {
				onStale()
			}
			return
		}
		fn()
	}
}
