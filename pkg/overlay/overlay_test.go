package overlay_test

import (
	"math"
	"testing"

	"github.com/aretw0/eventdeck/pkg/overlay"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestPresent_Rest(t *testing.T) {
	p := overlay.NewPresenter(120)
	want := overlay.State{
		Save: overlay.Indicator{Opacity: 0, Scale: 0.5},
		Skip: overlay.Indicator{Opacity: 0, Scale: 0.5},
		Glow: overlay.Glow{Color: overlay.Transparent, Width: 0},
		Next: overlay.Preview{Scale: 0.95, Opacity: 0.5},
	}
	if diff := cmp.Diff(want, p.Present(0), approx); diff != "" {
		t.Errorf("Present(0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, p.Present(math.NaN()), approx); diff != "" {
		t.Errorf("Present(NaN) mismatch (-want +got):\n%s", diff)
	}
}

func TestPresent_HalfwaySave(t *testing.T) {
	p := overlay.NewPresenter(120)
	got := p.Present(60)
	want := overlay.State{
		Save: overlay.Indicator{Opacity: 0.5, Scale: 0.75},
		Skip: overlay.Indicator{Opacity: 0, Scale: 0.5},
		Glow: overlay.Glow{Color: overlay.Blend(overlay.Transparent, overlay.SaveGlow, 0.5), Width: 1.5},
		Next: overlay.Preview{Scale: 0.975, Opacity: 0.75},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Present(60) mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.2, got.Glow.Color.A, 1e-9)
}

func TestPresent_ClampsPastThreshold(t *testing.T) {
	p := overlay.NewPresenter(120)
	for _, x := range []float64{120, 240, 10000, math.Inf(1)} {
		got := p.Present(x)
		assert.Equal(t, 1.0, got.Save.Opacity)
		assert.Equal(t, 1.0, got.Save.Scale)
		assert.Zero(t, got.Skip.Opacity)
		assert.Equal(t, overlay.SaveGlow, got.Glow.Color)
		assert.Equal(t, 3.0, got.Glow.Width)
		assert.InDelta(t, 1.0, got.Next.Scale, 1e-9)
	}
	got := p.Present(-500)
	assert.Equal(t, 1.0, got.Skip.Opacity)
	assert.Zero(t, got.Save.Opacity)
	assert.Equal(t, overlay.SkipGlow, got.Glow.Color)
}

func TestPresent_IndicatorsStayInRange(t *testing.T) {
	p := overlay.NewPresenter(80)
	for x := -400.0; x <= 400; x += 3.3 {
		s := p.Present(x)
		for _, ind := range []overlay.Indicator{s.Save, s.Skip} {
			assert.GreaterOrEqual(t, ind.Opacity, 0.0)
			assert.LessOrEqual(t, ind.Opacity, 1.0)
			assert.GreaterOrEqual(t, ind.Scale, 0.5)
			assert.LessOrEqual(t, ind.Scale, 1.0)
		}
		assert.False(t, s.Save.Opacity > 0 && s.Skip.Opacity > 0, "both sides lit at %v", x)
		assert.LessOrEqual(t, s.Glow.Color.A, 0.4+1e-9)
	}
}

func TestColor(t *testing.T) {
	c, err := overlay.ParseHex("#10b981", 0.4)
	require.NoError(t, err)
	assert.Equal(t, overlay.SaveGlow, c)
	assert.Equal(t, "#10b981", c.Hex())
	assert.Equal(t, "rgba(16, 185, 129, 0.40)", c.String())

	_, err = overlay.ParseHex("green", 1)
	assert.Error(t, err)

	mid := overlay.Blend(overlay.Transparent, overlay.SkipGlow, 1)
	assert.Equal(t, overlay.SkipGlow, mid)
}
