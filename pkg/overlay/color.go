package overlay

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a colour with 8-bit channels and a straight alpha in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Glow colours of the card border.
var (
	SkipGlow    = RGBA{R: 239, G: 68, B: 68, A: 0.4}
	SaveGlow    = RGBA{R: 16, G: 185, B: 129, A: 0.4}
	Transparent = RGBA{}
)

// ParseHex builds an opaque colour from "#rrggbb", or a translucent one when
// alpha < 1.
func ParseHex(hex string, alpha float64) (RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBA{R: r, G: g, B: b, A: clamp01(alpha)}, nil
}

// Hex returns the colour channels as "#rrggbb", ignoring alpha.
func (c RGBA) Hex() string {
	return c.colorful().Hex()
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", c.R, c.G, c.B, c.A)
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Blend interpolates channels and alpha linearly, t in [0, 1].
func Blend(a, b RGBA, t float64) RGBA {
	t = clamp01(t)
	r, g, bl := a.colorful().BlendRgb(b.colorful(), t).Clamped().RGB255()
	return RGBA{R: r, G: g, B: bl, A: a.A + (b.A-a.A)*t}
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
