package toggle

import (
	"time"

	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/motion"
)

// DefaultMessage is shown when no message is configured.
const DefaultMessage = "Hay nuevos eventos"

// Banner animation constants.
const (
	HiddenOffset    = -60.0
	fadeDuration    = 200 * time.Millisecond
	hideDuration    = 250 * time.Millisecond
	dismissDuration = 200 * time.Millisecond
	showSpringDamp  = 15
	showSpringStiff = 120
)

// Banner announces fresh data. It slides down when visible and slides back
// up when hidden or pressed.
type Banner struct {
	message   string
	onPress   func()
	onDismiss func()

	visible bool
	offset  *motion.Track
	opacity *motion.Track
	stepper *stepper
}

// BannerOption configures a Banner.
type BannerOption func(*Banner)

// WithMessage overrides DefaultMessage.
func WithMessage(msg string) BannerOption {
	return func(b *Banner) {
		if msg != "" {
			b.message = msg
		}
	}
}

// WithOnPress sets the press handler.
func WithOnPress(fn func()) BannerOption {
	return func(b *Banner) {
		b.onPress = fn
	}
}

// WithOnDismiss sets the handler run once the banner finished sliding out.
func WithOnDismiss(fn func()) BannerOption {
	return func(b *Banner) {
		b.onDismiss = fn
	}
}

// NewBanner creates a hidden banner.
func NewBanner(sched *frame.Scheduler, opts ...BannerOption) *Banner {
	b := &Banner{
		message: DefaultMessage,
		offset:  motion.NewTrack(HiddenOffset),
		opacity: motion.NewTrack(0),
	}
	b.stepper = &stepper{sched: sched, tracks: []*motion.Track{b.offset, b.opacity}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Message returns the banner text.
func (b *Banner) Message() string { return b.message }

// Visible returns the controlled visibility.
func (b *Banner) Visible() bool { return b.visible }

// Offset returns the vertical translation; 0 is fully shown.
func (b *Banner) Offset() float64 { return b.offset.Current }

// Opacity returns the current opacity.
func (b *Banner) Opacity() float64 { return b.opacity.Current }

// Rendered reports whether the banner occupies the screen at all.
func (b *Banner) Rendered() bool {
	return b.visible || b.opacity.Current > 0
}

// SetVisible applies the controlled visibility.
func (b *Banner) SetVisible(v bool) {
	if v == b.visible {
		return
	}
	b.visible = v
	if v {
		b.offset.Animate(&motion.Spring{To: 0, Stiffness: showSpringStiff, Damping: showSpringDamp}, nil)
		b.opacity.Animate(&motion.Timing{To: 1, Duration: fadeDuration}, nil)
	} else {
		b.slideOut(hideDuration)
	}
	b.stepper.kick()
}

// Press runs the press handler at once and slides the banner out. The owner
// is expected to hide it.
func (b *Banner) Press() {
	if !b.Rendered() {
		return
	}
	b.slideOut(dismissDuration)
	b.stepper.kick()
	if b.onPress != nil {
		b.onPress()
	}
}

// slideOut animates the banner away. onDismiss runs only when the slide
// completes; a later show replaces the slide and drops it. A banner already
// hidden or on its way out keeps its current slide.
func (b *Banner) slideOut(d time.Duration) {
	if b.offset.Target == HiddenOffset && (b.offset.Active() || b.offset.Current == HiddenOffset) {
		return
	}
	b.offset.Animate(&motion.Timing{To: HiddenOffset, Duration: d}, b.onDismiss)
	b.opacity.Animate(&motion.Timing{To: 0, Duration: fadeDuration}, nil)
}

// Dispose stops all animation without running onDismiss.
func (b *Banner) Dispose() { b.stepper.stop() }
