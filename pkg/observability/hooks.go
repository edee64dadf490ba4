package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/eventdeck/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured line per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	gesture := func(msg string, level slog.Level) func(context.Context, *domain.GestureEvent) {
		return func(ctx context.Context, e *domain.GestureEvent) {
			logger.Log(ctx, level, msg,
				"card_id", e.CardID,
				"gen", e.Generation,
				"state", e.State,
				"decision", e.Decision,
				"offset_x", e.OffsetX,
			)
		}
	}
	return domain.LifecycleHooks{
		OnGestureStart:  gesture("gesture_start", slog.LevelDebug),
		OnDecision:      gesture("decision", slog.LevelInfo),
		OnSettled:       gesture("settled", slog.LevelInfo),
		OnStaleCallback: gesture("stale_callback", slog.LevelDebug),
		OnTokenPhase: func(ctx context.Context, e *domain.TokenEvent) {
			logger.DebugContext(ctx, "token_phase", "index", e.Index, "phase", e.Phase, "elapsed", e.Elapsed)
		},
		OnOrbitStart: func(ctx context.Context, e *domain.OrbitEvent) {
			logger.DebugContext(ctx, "orbit_start", "members", e.Members, "delay", e.Delay)
		},
		OnAnalysis: func(ctx context.Context, e *domain.AnalysisEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "analysis", "endpoint", e.Endpoint, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "analysis", "endpoint", e.Endpoint, "duration", e.Duration)
		},
	}
}

// Chain merges hook sets; each event reaches every non-nil hook in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnGestureStart = chain(out.OnGestureStart, h.OnGestureStart)
		out.OnDecision = chain(out.OnDecision, h.OnDecision)
		out.OnSettled = chain(out.OnSettled, h.OnSettled)
		out.OnStaleCallback = chain(out.OnStaleCallback, h.OnStaleCallback)
		out.OnTokenPhase = chain(out.OnTokenPhase, h.OnTokenPhase)
		out.OnOrbitStart = chain(out.OnOrbitStart, h.OnOrbitStart)
		out.OnAnalysis = chain(out.OnAnalysis, h.OnAnalysis)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
