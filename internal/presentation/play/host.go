// Package play is an interactive terminal host for a deck. Arrow keys drag
// the top card, enter releases it, f flings it, esc cancels the drag.
package play

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/internal/presentation/tui"
	"github.com/aretw0/eventdeck/internal/runtime"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/overlay"
)

// Input tuning.
const (
	DefaultDragStep = 20.0   // points per arrow key press
	FlingVelocity   = 1200.0 // points per second
)

const help = "<-/-> drag  enter release  f fling  esc cancel  o offer  b banner  m mode  q quit"

// Host owns the screen and feeds key presses into the deck on the loop goroutine.
type Host struct {
	screen tcell.Screen
	deck   *runtime.Deck
	loop   *frame.Loop
	logger *slog.Logger

	step     float64
	offer    func() []domain.Card
	dragging bool
	offset   float64
	quit     func()
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger. Logs must not go to the terminal the host draws on.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithDragStep sets the offset added per arrow key press.
func WithDragStep(step float64) Option {
	return func(h *Host) {
		if step > 0 {
			h.step = step
		}
	}
}

// WithOffer sets the source of refreshed cards for the o key.
func WithOffer(fn func() []domain.Card) Option {
	return func(h *Host) {
		h.offer = fn
	}
}

// New creates a host drawing deck on screen. The deck must run on sched.
func New(screen tcell.Screen, deck *runtime.Deck, sched *frame.Scheduler, opts ...Option) *Host {
	h := &Host{
		screen: screen,
		deck:   deck,
		logger: logging.NewNop(),
		step:   DefaultDragStep,
		quit:   func() {},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loop = frame.NewLoop(sched, frame.WithAfterTick(h.Draw), frame.WithLoopLogger(h.logger))
	return h
}

// Run drives the loop and the input reader until ctx is done or the user quits.
// The caller initializes and finalizes the screen.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	h.quit = cancel

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.loop.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		// Unblocks PollEvent.
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	g.Go(func() error {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				cancel()
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			if !h.loop.Post(func() { h.Handle(ev) }) {
				return nil
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handle applies one terminal event. It reports false when the host should quit.
func (h *Host) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventKey:
		if !h.key(ev) {
			h.quit()
			return false
		}
	}
	return true
}

func (h *Host) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		h.drag(-h.step)
	case tcell.KeyRight:
		h.drag(h.step)
	case tcell.KeyEnter:
		h.release(0)
	case tcell.KeyEscape:
		if !h.dragging {
			return false
		}
		h.report("cancel", h.deck.PointerCancel())
		h.dragging, h.offset = false, 0
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'f':
			v := FlingVelocity
			if h.offset < 0 {
				v = -v
			}
			h.release(v)
		case 'b':
			h.deck.PressBanner()
		case 'm':
			next := domain.FeedModeLent
			if h.deck.Mode() == domain.FeedModeLent {
				next = domain.FeedModeEvents
			}
			h.report("mode", h.deck.SelectMode(next))
			h.dragging, h.offset = false, 0
		case 'o':
			if h.offer != nil {
				n := h.deck.Offer(h.offer())
				h.logger.Info("offered cards", "fresh", n)
			}
		}
	}
	return true
}

func (h *Host) drag(delta float64) {
	if !h.dragging {
		if err := h.deck.PointerDown(domain.DragSample{}); err != nil {
			h.report("pointer down", err)
			return
		}
		h.dragging, h.offset = true, 0
	}
	h.offset += delta
	h.report("pointer move", h.deck.PointerMove(domain.DragSample{OffsetX: h.offset}))
}

func (h *Host) release(velocity float64) {
	if !h.dragging {
		return
	}
	h.report("pointer up", h.deck.PointerUp(domain.DragSample{OffsetX: h.offset, VelocityX: velocity}))
	h.dragging, h.offset = false, 0
}

func (h *Host) report(op string, err error) {
	if err != nil {
		h.logger.Debug("input rejected", "op", op, "err", err)
	}
}

// Draw renders the current deck snapshot.
func (h *Host) Draw() {
	s := h.deck.Snapshot()
	h.screen.Clear()
	w, _ := h.screen.Size()

	plain := tcell.StyleDefault
	bold := plain.Bold(true)

	events, lent := plain, plain
	if s.Mode == domain.FeedModeLent {
		lent = bold.Reverse(true)
	} else {
		events = bold.Reverse(true)
	}
	x := h.text(0, 0, " Eventos ", events)
	h.text(x+1, 0, " Cuaresma ", lent)

	if s.Banner.Rendered {
		style := plain.Foreground(tcell.ColorOrange)
		if s.Banner.Opacity < 0.5 {
			style = style.Dim(true)
		}
		h.text(max(0, (w-len(s.Banner.Message))/2), 1, s.Banner.Message, style)
	}

	h.lane(3, w, s)
	h.text(0, 5, tui.Status(s), plain)
	h.text(0, 6, tui.Pins(s.Pins), plain)
	h.text(0, 8, help, plain.Dim(true))
	h.screen.Show()
}

func (h *Host) lane(y, w int, s runtime.Snapshot) {
	skip := indicatorStyle(s.Overlay.Skip, overlay.SkipGlow)
	save := indicatorStyle(s.Overlay.Save, overlay.SaveGlow)
	h.text(0, y, "<< SKIP", skip)
	h.text(max(0, w-7), y, "SAVE >>", save)

	if s.Card == nil {
		msg := "(no more events)"
		h.text(max(0, (w-len(msg))/2), y, msg, tcell.StyleDefault.Dim(true))
		return
	}
	label := s.Card.Title
	if label == "" {
		label = s.Card.ID
	}
	card := "[" + label + "]"
	col := (w-len([]rune(card)))/2 + int(math.Round(s.Transform.X/tui.PointsPerColumn))

	style := tcell.StyleDefault.Bold(true)
	if s.Overlay.Glow.Width > 0 {
		c := s.Overlay.Glow.Color
		style = style.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	}
	h.text(col, y, card, style)

	if s.Next != nil {
		h.text(max(0, (w-len(s.Next.Title))/2), y+1, s.Next.Title, tcell.StyleDefault.Dim(s.Overlay.Next.Opacity < 0.75))
	}
}

func indicatorStyle(ind overlay.Indicator, c overlay.RGBA) tcell.Style {
	style := tcell.StyleDefault
	if ind.Opacity <= 0 {
		return style.Dim(true)
	}
	style = style.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	return style.Bold(ind.Opacity >= 1)
}

// text draws s from column x, clipping at the screen edges. It returns the
// column after the last rune.
func (h *Host) text(x, y int, s string, style tcell.Style) int {
	w, _ := h.screen.Size()
	for _, r := range s {
		if x >= 0 && x < w {
			h.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
	return x
}
