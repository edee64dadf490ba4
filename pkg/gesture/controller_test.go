package gesture_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameStep = 16 * time.Millisecond

type harness struct {
	clock *frame.ManualClock
	sched *frame.Scheduler
	ctrl  *gesture.Controller

	saves, skips int
	settled      []domain.Decision
	events       []domain.EventType
	stale        int
}

func newHarness(t *testing.T, cfg gesture.Config) *harness {
	t.Helper()
	h := &harness{clock: frame.NewManualClock(time.Unix(0, 0))}
	h.sched = frame.NewScheduler(h.clock)

	record := func(_ context.Context, e *domain.GestureEvent) {
		h.events = append(h.events, e.Type)
	}
	hooks := domain.LifecycleHooks{
		OnGestureStart: record,
		OnDecision:     record,
		OnSettled:      record,
		OnStaleCallback: func(_ context.Context, e *domain.GestureEvent) {
			h.stale++
		},
	}

	ctrl, err := gesture.NewController(cfg, h.sched,
		gesture.WithID("card-1"),
		gesture.WithOnSave(func() { h.saves++ }),
		gesture.WithOnSkip(func() { h.skips++ }),
		gesture.WithOnSettled(func(d domain.Decision) { h.settled = append(h.settled, d) }),
		gesture.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

func (h *harness) advance(d time.Duration) {
	for d > 0 {
		step := min(frameStep, d)
		h.clock.Advance(step)
		h.sched.Tick()
		d -= step
	}
}

func (h *harness) drag(t *testing.T, offsets ...float64) {
	t.Helper()
	require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}))
	for _, x := range offsets {
		require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: x}))
		h.advance(frameStep)
	}
}

func release(t *testing.T, h *harness, x, v float64) {
	t.Helper()
	require.NoError(t, h.ctrl.PointerUp(domain.DragSample{OffsetX: x, VelocityX: v}))
}

func TestController_SaveScenario(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 50, 100, 150)

	assert.Equal(t, domain.GestureDragging, h.ctrl.State())
	assert.Equal(t, domain.ZoneCommittedSave, h.ctrl.Zone())

	release(t, h, 150, 0)
	assert.Equal(t, domain.GestureReleasing, h.ctrl.State())
	assert.Equal(t, domain.DecisionSave, h.ctrl.Decision())
	assert.Zero(t, h.saves, "callback only fires when the card settles")

	h.advance(240 * time.Millisecond)
	assert.Equal(t, domain.GestureReleasing, h.ctrl.State())
	assert.Zero(t, h.saves)

	h.advance(20 * time.Millisecond)
	assert.Equal(t, domain.GestureSettled, h.ctrl.State())
	assert.Equal(t, 1, h.saves)
	assert.Zero(t, h.skips)
	assert.Equal(t, []domain.Decision{domain.DecisionSave}, h.settled)

	tr := h.ctrl.Transform()
	assert.InDelta(t, 1.5*gesture.DefaultScreenWidth, tr.X, 1e-9)
	assert.InDelta(t, gesture.FlingRotation, tr.Rotation, 1e-9)

	h.advance(10 * time.Second)
	assert.Equal(t, 1, h.saves, "exactly once")
	assert.Zero(t, h.sched.Pending())
	assert.Equal(t, []domain.EventType{
		domain.EventGestureStart, domain.EventDecision, domain.EventSettled,
	}, h.events)

	err := h.ctrl.PointerDown(domain.DragSample{})
	assert.True(t, errors.Is(err, domain.ErrGestureSettled))
}

func TestController_SnapBackScenario(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 20, 40)
	release(t, h, 40, 0)

	assert.Equal(t, domain.DecisionNone, h.ctrl.Decision())
	assert.Equal(t, domain.GestureReleasing, h.ctrl.State())

	h.advance(frameStep)
	assert.Less(t, h.ctrl.Offset(), 40.0, "card heads home")

	h.advance(2500 * time.Millisecond)
	assert.Equal(t, domain.GestureSettled, h.ctrl.State())
	assert.Equal(t, domain.CardTransform{}, h.ctrl.Transform())
	assert.Zero(t, h.saves)
	assert.Zero(t, h.skips)
	assert.Equal(t, []domain.Decision{domain.DecisionNone}, h.settled)
	assert.Zero(t, h.sched.Pending())
}

func TestController_BoundaryIsInclusiveOnCommitSide(t *testing.T) {
	eps := math.Nextafter(120, 0)
	tests := []struct {
		name   string
		offset float64
		want   domain.Decision
	}{
		{"just below save", eps, domain.DecisionNone},
		{"at save", 120, domain.DecisionSave},
		{"just below skip", -eps, domain.DecisionNone},
		{"at skip", -120, domain.DecisionSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, gesture.DefaultConfig())
			h.drag(t, tt.offset)
			release(t, h, tt.offset, 0)
			assert.Equal(t, tt.want, h.ctrl.Decision())
		})
	}
}

func TestController_SkipFlingsLeft(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, -60, -130)
	release(t, h, -130, 0)
	h.advance(300 * time.Millisecond)

	assert.Equal(t, domain.GestureSettled, h.ctrl.State())
	assert.Equal(t, 1, h.skips)
	assert.Zero(t, h.saves)
	assert.InDelta(t, -600, h.ctrl.Transform().X, 1e-9)
	assert.InDelta(t, -gesture.FlingRotation, h.ctrl.Transform().Rotation, 1e-9)
}

func TestController_FastFlingTravelsFurther(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 150)
	release(t, h, 150, 5000)
	h.advance(300 * time.Millisecond)

	assert.InDelta(t, 150+5000*0.25, h.ctrl.Transform().X, 1e-9)
	assert.Equal(t, 1, h.saves)
}

func TestController_DragFollowsPointer(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}))
	require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: 200, OffsetY: 30}))

	tr := h.ctrl.Transform()
	assert.Equal(t, 200.0, tr.X)
	assert.Equal(t, 15.0, tr.Y)
	assert.InDelta(t, 10.0, tr.Rotation, 1e-9)
}

func TestController_CancelDecidesLikeRelease(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 200)
	require.NoError(t, h.ctrl.PointerCancel())
	assert.Equal(t, domain.DecisionSave, h.ctrl.Decision())

	h.advance(300 * time.Millisecond)
	assert.Equal(t, 1, h.saves)
}

func TestController_MalformedSamplesAreDropped(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 150)

	require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: math.NaN()}))
	assert.Equal(t, 150.0, h.ctrl.Offset())

	require.NoError(t, h.ctrl.PointerUp(domain.DragSample{OffsetX: math.NaN()}))
	assert.Equal(t, domain.DecisionSave, h.ctrl.Decision(), "last valid offset decides")
}

func TestController_NonFiniteFieldsKeepTheOffset(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 100)
	y := h.ctrl.Transform().Y

	require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: 150, OffsetY: math.NaN(), VelocityX: math.Inf(1)}))
	assert.Equal(t, 150.0, h.ctrl.Offset())
	assert.Equal(t, y, h.ctrl.Transform().Y)

	release(t, h, 150, math.NaN())
	h.advance(300 * time.Millisecond)

	// A non-finite velocity counts as zero: the minimum fling distance.
	assert.InDelta(t, gesture.FlingFactor*gesture.DefaultConfig().ScreenWidth, h.ctrl.Transform().X, 1e-9)
	assert.Equal(t, 1, h.saves)
}

func TestController_RegrabDuringSnapBackSupersedesIt(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 40)
	release(t, h, 40, 0)
	h.advance(48 * time.Millisecond)

	grabbed := h.ctrl.Offset()
	require.Greater(t, grabbed, 0.0)
	require.Less(t, grabbed, 40.0)

	require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}))
	assert.Equal(t, domain.GestureDragging, h.ctrl.State())
	assert.Equal(t, uint64(1), h.ctrl.Generation())
	assert.Equal(t, grabbed, h.ctrl.Offset(), "card is grabbed where it is")

	// The abandoned snap-back backstop fires into a newer generation.
	h.advance(gesture.DefaultMaxSettle)
	assert.Equal(t, 1, h.stale)
	assert.Equal(t, domain.GestureDragging, h.ctrl.State())
	assert.Empty(t, h.settled)

	require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: 120}))
	assert.InDelta(t, grabbed+120, h.ctrl.Offset(), 1e-9)
	release(t, h, 120, 0)
	h.advance(300 * time.Millisecond)

	assert.Equal(t, 1, h.saves)
	assert.Equal(t, []domain.Decision{domain.DecisionSave}, h.settled)
}

func TestController_RepeatedRegrabsDropFiredBackstops(t *testing.T) {
	cfg := gesture.DefaultConfig()
	cfg.MaxSettle = 200 * time.Millisecond
	h := newHarness(t, cfg)
	h.drag(t, 40)

	// Samples are relative to where the card was grabbed; keep it at 40.
	base := 0.0
	for range 10 {
		release(t, h, 40-base, 0)
		h.advance(frameStep)
		require.Equal(t, domain.GestureReleasing, h.ctrl.State())
		require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}))
		base = h.ctrl.Offset()
		// Let the abandoned backstop fire into the newer generation.
		h.advance(cfg.MaxSettle + frameStep)
		require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: 40 - base}))
	}

	assert.Equal(t, 10, h.stale)
	assert.LessOrEqual(t, gesture.SupersededBackstops(h.ctrl), 1)
	assert.Empty(t, h.settled)
}

func TestController_GrabDuringCommitIsRejected(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 150)
	release(t, h, 150, 0)
	h.advance(100 * time.Millisecond)

	err := h.ctrl.PointerDown(domain.DragSample{})
	assert.True(t, errors.Is(err, domain.ErrCommitInFlight))

	h.advance(200 * time.Millisecond)
	assert.Equal(t, 1, h.saves)
}

func TestController_InputOutOfOrder(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	assert.True(t, errors.Is(h.ctrl.PointerMove(domain.DragSample{OffsetX: 5}), domain.ErrNotDragging))
	assert.True(t, errors.Is(h.ctrl.PointerUp(domain.DragSample{}), domain.ErrNotDragging))
	assert.True(t, errors.Is(h.ctrl.PointerCancel(), domain.ErrNotDragging))

	require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}))
	require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}), "repeated down is ignored")
}

func TestController_BackstopForcesSettle(t *testing.T) {
	cfg := gesture.DefaultConfig()
	cfg.MaxSettle = 100 * time.Millisecond
	h := newHarness(t, cfg)
	h.drag(t, 90)
	release(t, h, 90, 0)

	h.advance(112 * time.Millisecond)
	assert.Equal(t, domain.GestureSettled, h.ctrl.State())
	assert.Equal(t, domain.CardTransform{}, h.ctrl.Transform())
	assert.Equal(t, []domain.Decision{domain.DecisionNone}, h.settled)
}

func TestController_DisposeCancelsEverything(t *testing.T) {
	h := newHarness(t, gesture.DefaultConfig())
	h.drag(t, 40)
	release(t, h, 40, 0)
	h.advance(32 * time.Millisecond)
	require.NoError(t, h.ctrl.PointerDown(domain.DragSample{}))
	require.NoError(t, h.ctrl.PointerMove(domain.DragSample{OffsetX: 200}))
	release(t, h, 200, 0)

	h.ctrl.Dispose()
	h.ctrl.Dispose()
	assert.Zero(t, h.sched.Pending())

	h.advance(5 * time.Second)
	assert.Zero(t, h.saves)
	assert.Empty(t, h.settled)
	assert.Zero(t, h.stale)
	assert.True(t, errors.Is(h.ctrl.PointerDown(domain.DragSample{}), domain.ErrGestureSettled))
}

func TestController_AsymmetricThreshold(t *testing.T) {
	cfg := gesture.DefaultConfig()
	cfg.SkipThreshold = 200
	h := newHarness(t, cfg)
	h.drag(t, -150)
	release(t, h, -150, 0)
	assert.Equal(t, domain.DecisionNone, h.ctrl.Decision())
}

func TestController_AtMostOneOutcome(t *testing.T) {
	for _, x := range []float64{-400, -121, -120, -119, -1, 0, 1, 60, 119.99, 120, 121, 800} {
		h := newHarness(t, gesture.DefaultConfig())
		h.drag(t, x)
		release(t, h, x, 0)
		h.advance(5 * time.Second)

		assert.Equal(t, domain.GestureSettled, h.ctrl.State(), "offset %v", x)
		assert.LessOrEqual(t, h.saves+h.skips, 1, "offset %v", x)
		assert.Len(t, h.settled, 1, "offset %v", x)
		if h.ctrl.Decision() == domain.DecisionNone {
			assert.Zero(t, h.saves+h.skips, "offset %v", x)
		}
	}
}

func TestNewController_InvalidConfig(t *testing.T) {
	cfg := gesture.DefaultConfig()
	cfg.Threshold = 0
	_, err := gesture.NewController(cfg, frame.NewScheduler(frame.SystemClock{}))
	assert.True(t, errors.Is(err, domain.ErrInvalidThreshold))

	cfg = gesture.DefaultConfig()
	cfg.ScreenWidth = -1
	_, err = gesture.NewController(cfg, frame.NewScheduler(frame.SystemClock{}))
	assert.Error(t, err)
}
