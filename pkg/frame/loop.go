package frame

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/eventdeck/internal/logging"
)

// DefaultFrameInterval targets 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop drives a Scheduler in real time and serializes host input with ticks.
type Loop struct {
	sched     *Scheduler
	interval  time.Duration
	posts     chan func()
	done      chan struct{}
	afterTick func()
	logger    *slog.Logger
	running   atomic.Bool
	ticks     atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the frame interval.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithAfterTick registers a hook that runs after every tick, typically a redraw.
func WithAfterTick(fn func()) LoopOption {
	return func(l *Loop) {
		l.afterTick = fn
	}
}

// WithLoopLogger configures the loop logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a loop for sched. It does not start it.
func NewLoop(sched *Scheduler, opts ...LoopOption) *Loop {
	l := &Loop{
		sched:    sched,
		interval: DefaultFrameInterval,
		posts:    make(chan func(), 64),
		done:     make(chan struct{}),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post enqueues fn to run on the loop goroutine before the next tick.
// It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.posts <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Ticks returns the number of ticks run so far.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Run ticks the scheduler until ctx is done. It may be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return context.Canceled
	}
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Debug("frame loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("frame loop stopped", "ticks", l.ticks.Load())
			return ctx.Err()
		case fn := <-l.posts:
			l.sched.safely(fn)
		case <-ticker.C:
			l.sched.Tick()
			l.ticks.Add(1)
			if l.afterTick != nil {
				l.sched.safely(l.afterTick)
			}
		}
	}
}
