package observability

import (
	"context"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/eventdeck/pkg/domain"
)

const namespace = "eventdeck"

// Metrics holds the collectors fed by the lifecycle hooks.
type Metrics struct {
	GestureStarts  prometheus.Counter
	Decisions      *prometheus.CounterVec
	ReleaseRatio   prometheus.Histogram
	StaleCallbacks prometheus.Counter
	PinsAnchored   prometheus.Counter
	PinSettle      prometheus.Histogram
	OrbitStarts    prometheus.Counter
	Analyses       *prometheus.CounterVec
	AnalysisTime   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		GestureStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gestures_started_total",
			Help:      "Number of drags started on a card.",
		}),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Settled gestures by decision.",
		}, []string{"decision"}),
		ReleaseRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "release_offset_ratio",
			Help:      "Release offset as a fraction of the commit threshold.",
			Buckets:   []float64{0.25, 0.5, 0.75, 0.9, 1, 1.25, 1.5, 2, 3},
		}),
		StaleCallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_callbacks_total",
			Help:      "Animation completions dropped by the generation guard.",
		}),
		PinsAnchored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pins_anchored_total",
			Help:      "Decoration tokens that reached their anchor.",
		}),
		PinSettle: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pin_settle_seconds",
			Help:      "Time from spawn to anchor of freshly animated pins.",
			Buckets:   []float64{0.6, 0.8, 1, 1.5, 2, 3, 5},
		}),
		OrbitStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orbit_rotations_started_total",
			Help:      "Orbit animators that began rotating.",
		}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_requests_total",
			Help:      "Calls to the image-analysis service by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		AnalysisTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Latency of calls to the image-analysis service.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.GestureStarts, m.Decisions, m.ReleaseRatio, m.StaleCallbacks,
		m.PinsAnchored, m.PinSettle, m.OrbitStarts, m.Analyses, m.AnalysisTime,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGestureStart: func(ctx context.Context, e *domain.GestureEvent) {
			m.GestureStarts.Inc()
		},
		OnDecision: func(ctx context.Context, e *domain.GestureEvent) {
			if e.Threshold > 0 {
				m.ReleaseRatio.Observe(math.Abs(e.OffsetX) / e.Threshold)
			}
		},
		OnSettled: func(ctx context.Context, e *domain.GestureEvent) {
			m.Decisions.WithLabelValues(e.Decision.String()).Inc()
		},
		OnStaleCallback: func(ctx context.Context, e *domain.GestureEvent) {
			m.StaleCallbacks.Inc()
		},
		OnTokenPhase: func(ctx context.Context, e *domain.TokenEvent) {
			if e.Phase != domain.TokenAnchored {
				return
			}
			m.PinsAnchored.Inc()
			if e.Elapsed > 0 {
				m.PinSettle.Observe(e.Elapsed.Seconds())
			}
		},
		OnOrbitStart: func(ctx context.Context, e *domain.OrbitEvent) {
			m.OrbitStarts.Inc()
		},
		OnAnalysis: func(ctx context.Context, e *domain.AnalysisEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.Analyses.WithLabelValues(e.Endpoint, outcome).Inc()
			m.AnalysisTime.Observe(e.Duration.Seconds())
		},
	}
}
