package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/eventdeck/internal/runtime"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/overlay"
)

// PointsPerColumn maps card offsets onto terminal columns.
const PointsPerColumn = 10.0

// FrameRenderer draws deck snapshots as plain text lines.
type FrameRenderer struct {
	profile termenv.Profile
	width   int
}

// NewFrameRenderer creates a renderer for lanes of width columns.
func NewFrameRenderer(profile termenv.Profile, width int) *FrameRenderer {
	if width < 30 {
		width = 30
	}
	return &FrameRenderer{profile: profile, width: width}
}

// Render draws one frame.
func (r *FrameRenderer) Render(s runtime.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(r.modeLine(s))
	sb.WriteByte('\n')
	if s.Banner.Rendered {
		sb.WriteString(r.bannerLine(s.Banner))
		sb.WriteByte('\n')
	}
	sb.WriteString(r.Lane(s))
	sb.WriteByte('\n')
	sb.WriteString(Status(s))
	sb.WriteByte('\n')
	sb.WriteString(Pins(s.Pins))
	sb.WriteByte('\n')
	return sb.String()
}

func (r *FrameRenderer) modeLine(s runtime.Snapshot) string {
	events, lent := " Eventos ", " Cuaresma "
	style := func(label string, on bool) string {
		if on {
			return r.profile.String("[" + strings.TrimSpace(label) + "]").Bold().String()
		}
		return label
	}
	return style(events, s.Mode == domain.FeedModeEvents) + "|" + style(lent, s.Mode == domain.FeedModeLent)
}

func (r *FrameRenderer) bannerLine(b runtime.BannerView) string {
	text := "v " + b.Message + " v"
	if b.Opacity < 0.5 {
		return r.profile.String(text).Faint().String()
	}
	return r.profile.String(text).Foreground(r.profile.Color("#f59e0b")).Bold().String()
}

// Lane draws the card at its horizontal offset between the skip and save
// labels. The labels light up with the overlay indicators.
func (r *FrameRenderer) Lane(s runtime.Snapshot) string {
	if s.Card == nil {
		return center("(no more events)", r.width)
	}

	label := s.Card.Title
	if label == "" {
		label = s.Card.ID
	}
	card := "[" + truncate(label, r.width/3) + "]"

	lane := []rune(strings.Repeat(" ", r.width))
	mid := r.width/2 - len([]rune(card))/2
	col := mid + int(math.Round(s.Transform.X/PointsPerColumn))
	for i, ch := range []rune(card) {
		if p := col + i; p >= 0 && p < len(lane) {
			lane[p] = ch
		}
	}

	skip := r.indicator("<< SKIP", s.Overlay.Skip, overlay.SkipGlow)
	save := r.indicator("SAVE >>", s.Overlay.Save, overlay.SaveGlow)
	body := string(lane)
	if s.Overlay.Glow.Width > 0 {
		body = r.profile.String(body).Foreground(r.profile.Color(s.Overlay.Glow.Color.Hex())).String()
	}
	return skip + " " + body + " " + save
}

func (r *FrameRenderer) indicator(text string, ind overlay.Indicator, c overlay.RGBA) string {
	switch {
	case ind.Opacity >= 1:
		return r.profile.String(text).Foreground(r.profile.Color(c.Hex())).Bold().String()
	case ind.Opacity > 0:
		return r.profile.String(text).Foreground(r.profile.Color(c.Hex())).String()
	default:
		return r.profile.String(text).Faint().String()
	}
}

// Status is the one-line gesture readout.
func Status(s runtime.Snapshot) string {
	pos := "-"
	if s.Card != nil {
		pos = fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	}
	return fmt.Sprintf("%-9s zone=%-14s x=%+7.1f rot=%+5.1f decision=%-4s card=%s saved=%d skipped=%d",
		s.Gesture, s.Zone, s.Transform.X, s.Transform.Rotation, s.Decision, pos, s.Saved, s.Skipped)
}

// Pins lists the pin tokens by phase.
func Pins(pins []runtime.PinView) string {
	if len(pins) == 0 {
		return "pins: none"
	}
	parts := make([]string, len(pins))
	for i, p := range pins {
		mark := "o"
		switch p.Phase {
		case domain.TokenSnapping:
			mark = "*"
		case domain.TokenAnchored:
			mark = "@"
		}
		parts[i] = fmt.Sprintf("%s%d(%.1f,%.1f x%.2f)", mark, p.Index, p.Pose.X, p.Pose.Y, p.Pose.Scale)
	}
	return "pins: " + strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 2 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func center(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
