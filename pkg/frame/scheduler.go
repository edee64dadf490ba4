package frame

import (
	"container/heap"
	"log/slog"
	"time"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/ports"
)

// Handle identifies one scheduled callback.
type Handle struct {
	seq       uint64
	at        time.Time // timers only
	last      time.Time // frame callbacks only: time of the previous call
	timerFn   func()
	frameFn   func(dt time.Duration)
	cancelled bool
	fired     bool
}

// Cancel prevents any further invocation. Safe on nil and repeated calls.
func (h *Handle) Cancel() {
	if h != nil {
		h.cancelled = true
	}
}

// Active reports whether the callback may still run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.fired
}

// Scheduler runs timers and per-frame callbacks on Tick.
type Scheduler struct {
	clock  ports.Clock
	logger *slog.Logger

	seq    uint64
	timers timerQueue
	frames []*Handle
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger configures the logger used to report panicking callbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock ports.Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:  clock,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run on the first Tick at or after now+d.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	s.seq++
	h := &Handle{seq: s.seq, at: s.clock.Now().Add(d), timerFn: fn}
	heap.Push(&s.timers, h)
	return h
}

// EachFrame schedules fn on every Tick until cancelled. dt is the time since
// the previous call, or since registration for the first one.
func (s *Scheduler) EachFrame(fn func(dt time.Duration)) *Handle {
	s.seq++
	h := &Handle{seq: s.seq, last: s.clock.Now(), frameFn: fn}
	s.frames = append(s.frames, h)
	return h
}

// Tick runs due timers in deadline order, then every frame callback.
// Callbacks scheduled by callbacks run in the same tick when already due.
func (s *Scheduler) Tick() {
	now := s.clock.Now()

	for s.timers.Len() > 0 {
		next := s.timers[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&s.timers)
		if next.cancelled {
			continue
		}
		next.fired = true
		s.safely(next.timerFn)
	}

	// Index loop: callbacks may register more frame callbacks.
	for i := 0; i < len(s.frames); i++ {
		h := s.frames[i]
		if h.cancelled {
			continue
		}
		dt := now.Sub(h.last)
		if dt < 0 {
			dt = 0
		}
		h.last = now
		s.safely(func() { h.frameFn(dt) })
	}

	live := s.frames[:0]
	for _, h := range s.frames {
		if !h.cancelled {
			live = append(live, h)
		}
	}
	for i := len(live); i < len(s.frames); i++ {
		s.frames[i] = nil
	}
	s.frames = live
}

// Pending returns the number of timers and frame callbacks still scheduled.
func (s *Scheduler) Pending() int {
	n := 0
	for _, h := range s.timers {
		if !h.cancelled {
			n++
		}
	}
	for _, h := range s.frames {
		if !h.cancelled {
			n++
		}
	}
	return n
}

// safely isolates the loop from a panicking callback: the frame may be wrong,
// the interaction loop keeps running.
func (s *Scheduler) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled callback panicked", "panic", r)
		}
	}()
	fn()
}

// timerQueue is a min-heap ordered by deadline, then scheduling order.
type timerQueue []*Handle

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*Handle)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return h
}
