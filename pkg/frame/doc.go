/*
Package frame implements the cooperative, frame-driven scheduling model the
interaction engine runs on.

A Scheduler owns delayed callbacks (timers) and per-frame callbacks. It is not
safe for concurrent use: a host drives it from a single goroutine by calling
Tick once per rendered frame. Loop is such a host for real time; it also
serializes input handlers (Post) with ticks so pointer events and animation
completions never interleave.

Every scheduled callback can be cancelled through its Handle, and Generation
turns any callback into one that silently no-ops after its owner was reset.
*/
package frame
