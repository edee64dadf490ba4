package toggle_test

import (
	"testing"
	"time"

	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSched() (*frame.Scheduler, func(time.Duration)) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	sched := frame.NewScheduler(clock)
	advance := func(d time.Duration) {
		for d > 0 {
			step := min(16*time.Millisecond, d)
			clock.Advance(step)
			sched.Tick()
			d -= step
		}
	}
	return sched, advance
}

func TestModeToggle_SelectIsControlled(t *testing.T) {
	sched, _ := newSched()
	var requested []domain.FeedMode
	mt := toggle.NewModeToggle(domain.FeedModeEvents, func(m domain.FeedMode) {
		requested = append(requested, m)
	}, sched)

	require.NoError(t, mt.Select(domain.FeedModeEvents))
	assert.Empty(t, requested, "same mode does not notify")

	require.NoError(t, mt.Select(domain.FeedModeLent))
	assert.Equal(t, []domain.FeedMode{domain.FeedModeLent}, requested)
	assert.Equal(t, domain.FeedModeEvents, mt.Mode(), "owner applies the change")

	assert.Error(t, mt.Select(domain.FeedMode("cuaresma")))
}

func TestModeToggle_IndicatorSlides(t *testing.T) {
	sched, advance := newSched()
	mt := toggle.NewModeToggle(domain.FeedModeEvents, nil, sched)
	assert.Equal(t, toggle.IndicatorStart, mt.Indicator())

	require.NoError(t, mt.SetMode(domain.FeedModeLent))
	assert.True(t, mt.Animating())

	prev := mt.Indicator()
	for i := 0; i < 10; i++ {
		advance(16 * time.Millisecond)
		cur := mt.Indicator()
		assert.GreaterOrEqual(t, cur, toggle.IndicatorStart)
		assert.LessOrEqual(t, cur, toggle.IndicatorEnd)
		assert.GreaterOrEqual(t, cur, prev-1e-9)
		prev = cur
	}

	advance(2 * time.Second)
	assert.False(t, mt.Animating())
	assert.Equal(t, toggle.IndicatorEnd, mt.Indicator())
	assert.Zero(t, sched.Pending())

	assert.Error(t, mt.SetMode(""))
}

func TestModeToggle_StartsInLent(t *testing.T) {
	sched, _ := newSched()
	mt := toggle.NewModeToggle(domain.FeedModeLent, nil, sched)
	assert.Equal(t, toggle.IndicatorEnd, mt.Indicator())
	mt.Dispose()
}

func TestBanner_ShowPressDismiss(t *testing.T) {
	sched, advance := newSched()
	presses, dismissals := 0, 0
	b := toggle.NewBanner(sched,
		toggle.WithOnPress(func() { presses++ }),
		toggle.WithOnDismiss(func() { dismissals++ }),
	)
	assert.Equal(t, toggle.DefaultMessage, b.Message())
	assert.False(t, b.Rendered())
	assert.Equal(t, toggle.HiddenOffset, b.Offset())

	b.SetVisible(true)
	assert.True(t, b.Rendered())
	advance(2 * time.Second)
	assert.Equal(t, 0.0, b.Offset())
	assert.Equal(t, 1.0, b.Opacity())
	assert.Zero(t, sched.Pending())

	b.Press()
	assert.Equal(t, 1, presses, "press handler runs at once")
	assert.Zero(t, dismissals)

	advance(176 * time.Millisecond)
	assert.Zero(t, dismissals, "never before the slide completes")

	advance(32 * time.Millisecond)
	assert.Equal(t, 1, dismissals)
	assert.Equal(t, toggle.HiddenOffset, b.Offset())

	b.SetVisible(false)
	advance(time.Second)
	assert.Equal(t, 1, dismissals, "hiding an already dismissed banner does not dismiss twice")
	assert.False(t, b.Rendered())
}

func TestBanner_HideRunsDismissAfterSlide(t *testing.T) {
	sched, advance := newSched()
	dismissals := 0
	b := toggle.NewBanner(sched, toggle.WithMessage("3 nuevos"), toggle.WithOnDismiss(func() { dismissals++ }))
	assert.Equal(t, "3 nuevos", b.Message())

	b.SetVisible(true)
	advance(time.Second)
	b.SetVisible(false)

	advance(240 * time.Millisecond)
	assert.Zero(t, dismissals)
	advance(16 * time.Millisecond)
	assert.Equal(t, 1, dismissals)
}

func TestBanner_ShowDuringHideDropsDismiss(t *testing.T) {
	sched, advance := newSched()
	dismissals := 0
	b := toggle.NewBanner(sched, toggle.WithOnDismiss(func() { dismissals++ }))

	b.SetVisible(true)
	advance(time.Second)
	b.SetVisible(false)
	advance(100 * time.Millisecond)
	b.SetVisible(true)
	advance(2 * time.Second)

	assert.Zero(t, dismissals)
	assert.Equal(t, 0.0, b.Offset())

	b.Dispose()
	assert.Zero(t, sched.Pending())
}
