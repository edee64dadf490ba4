package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/eventdeck"
	"github.com/aretw0/eventdeck/internal/config"
	"github.com/aretw0/eventdeck/internal/presentation/graph"
	"github.com/aretw0/eventdeck/internal/presentation/tui"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/observability"
)

const simFrame = 16 * time.Millisecond

type simOptions struct {
	Offset   float64
	OffsetY  float64
	Velocity float64
	Frames   bool
	Limit    time.Duration
}

type simFrameRecord struct {
	At       int64   `json:"at_ms"`
	State    string  `json:"state"`
	Zone     string  `json:"zone"`
	X        float64 `json:"x"`
	Rotation float64 `json:"rotation"`
	Line     string  `json:"-"`
}

type simEvent struct {
	At     int64  `json:"at_ms"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

type simResult struct {
	Threshold float64          `json:"threshold"`
	Decision  string           `json:"decision"`
	Saved     []string         `json:"saved"`
	Skipped   []string         `json:"skipped"`
	Pins      int              `json:"pins"`
	Frames    []simFrameRecord `json:"frames,omitempty"`
	Events    []simEvent       `json:"events"`
	Elapsed   int64            `json:"elapsed_ms"`

	visited  []domain.GestureState
	decision domain.Decision
	final    domain.GestureState
	last     eventdeck.Snapshot
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one swipe on a virtual clock and print the timeline",
	Long: `Drags the top card to --offset, releases it with --velocity and advances a
manual frame clock until every animation is idle. The decision timeline is
printed as text, JSON or a Mermaid state diagram.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := simOptions{}
		opts.Offset, _ = cmd.Flags().GetFloat64("offset")
		opts.OffsetY, _ = cmd.Flags().GetFloat64("offset-y")
		opts.Velocity, _ = cmd.Flags().GetFloat64("velocity")
		opts.Frames, _ = cmd.Flags().GetBool("frames")
		opts.Limit, _ = cmd.Flags().GetDuration("limit")
		asJSON, _ := cmd.Flags().GetBool("json")
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		cfg := app.cfg
		if cmd.Flags().Changed("threshold") {
			cfg.Gesture.Threshold, _ = cmd.Flags().GetFloat64("threshold")
		}

		res, err := simulate(cmd.Context(), cfg, opts, app.hooks())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case mermaid:
			_, err = fmt.Fprintln(out, graph.GenerateMermaid(&graph.GestureOverlay{
				Visited:  res.visited,
				Current:  res.final,
				Decision: res.decision,
			}))
			return err
		case asJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		default:
			return printSimulation(out, res)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Float64("offset", 150, "Horizontal drag offset at release, in points")
	simulateCmd.Flags().Float64("offset-y", 0, "Vertical drag offset at release, in points")
	simulateCmd.Flags().Float64("velocity", 0, "Horizontal release velocity, in points per second")
	simulateCmd.Flags().Float64("threshold", 0, "Commit threshold, overrides gesture.threshold")
	simulateCmd.Flags().Bool("frames", false, "Record every frame")
	simulateCmd.Flags().Duration("limit", 10*time.Second, "Stop the virtual clock after this long")
	simulateCmd.Flags().Bool("json", false, "Print the result as JSON")
	simulateCmd.Flags().Bool("mermaid", false, "Print the visited gesture states as a Mermaid diagram")
}

// simulate drives one gesture on a manual clock and collects its timeline.
func simulate(ctx context.Context, cfg config.Config, opts simOptions, hooks domain.LifecycleHooks) (*simResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := frame.NewManualClock(time.Unix(0, 0))
	start := clock.Now()
	res := &simResult{
		Threshold: cfg.Gesture.Threshold,
		visited:   []domain.GestureState{domain.GestureIdle},
		final:     domain.GestureIdle,
	}
	since := func(t time.Time) int64 { return t.Sub(start).Milliseconds() }

	settled := false
	rec := func(e *domain.GestureEvent) {
		res.Events = append(res.Events, simEvent{
			At:     since(e.Timestamp),
			Type:   string(e.Type),
			Detail: fmt.Sprintf("card=%s decision=%s x=%.1f", e.CardID, e.Decision, e.OffsetX),
		})
	}
	timeline := domain.LifecycleHooks{
		OnGestureStart: func(_ context.Context, e *domain.GestureEvent) {
			if !settled {
				res.visit(domain.GestureDragging)
			}
			rec(e)
		},
		OnDecision: func(_ context.Context, e *domain.GestureEvent) {
			res.visit(domain.GestureReleasing)
			res.decision = e.Decision
			rec(e)
		},
		OnSettled: func(_ context.Context, e *domain.GestureEvent) {
			if !settled {
				res.visit(domain.GestureSettled)
				settled = true
			}
			rec(e)
		},
		OnStaleCallback: func(_ context.Context, e *domain.GestureEvent) { rec(e) },
		OnTokenPhase: func(_ context.Context, e *domain.TokenEvent) {
			res.Events = append(res.Events, simEvent{
				At:     since(e.Timestamp),
				Type:   string(e.Type),
				Detail: fmt.Sprintf("pin=%d phase=%s", e.Index, e.Phase),
			})
		},
	}

	engine, err := eventdeck.New(
		eventdeck.WithConfig(cfg),
		eventdeck.WithClock(clock),
		eventdeck.WithLifecycleHooks(observability.Chain(timeline, hooks)),
	)
	if err != nil {
		return nil, err
	}
	deck, err := engine.NewDeck(ctx, eventdeck.Feeds{
		cfg.Deck.Mode: {
			{ID: "sim-1", Title: "Simulated event"},
			{ID: "sim-2", Title: "Next event"},
		},
	}, "")
	if err != nil {
		return nil, err
	}
	defer deck.Close()

	sched := engine.Scheduler()
	tick := func() {
		clock.Advance(simFrame)
		sched.Tick()
		if opts.Frames {
			s := deck.Snapshot()
			res.Frames = append(res.Frames, simFrameRecord{
				At:       since(clock.Now()),
				State:    s.Gesture.String(),
				Zone:     s.Zone.String(),
				X:        s.Transform.X,
				Rotation: s.Transform.Rotation,
				Line:     tui.Status(s),
			})
		}
	}

	sample := domain.DragSample{OffsetX: opts.Offset, OffsetY: opts.OffsetY, VelocityX: opts.Velocity}
	if err := deck.PointerDown(domain.DragSample{}); err != nil {
		return nil, err
	}
	if err := deck.PointerMove(sample); err != nil {
		return nil, err
	}
	tick()
	if err := deck.PointerUp(sample); err != nil {
		return nil, err
	}
	for clock.Now().Sub(start) < opts.Limit && sched.Pending() > 0 {
		tick()
	}

	if settled {
		res.final = domain.GestureSettled
	}
	res.Decision = res.decision.String()
	tally := deck.Tally()
	res.Saved, res.Skipped = tally.Saved, tally.Skipped
	res.Pins = len(deck.Pins().Tokens())
	res.Elapsed = since(clock.Now())
	res.last = deck.Snapshot()
	return res, nil
}

func (r *simResult) visit(s domain.GestureState) {
	r.visited = append(r.visited, s)
}

func printSimulation(w io.Writer, res *simResult) error {
	p := termenv.NewOutput(w).Profile
	head := func(s string) string { return p.String(s).Bold().String() }

	fmt.Fprintln(w, head("final frame"))
	fmt.Fprint(w, tui.NewFrameRenderer(p, 60).Render(res.last))

	if len(res.Frames) > 0 {
		fmt.Fprintln(w, head("frames"))
		for _, f := range res.Frames {
			fmt.Fprintf(w, "%6dms %s\n", f.At, f.Line)
		}
	}
	fmt.Fprintln(w, head("timeline"))
	for _, e := range res.Events {
		fmt.Fprintf(w, "%6dms %-14s %s\n", e.At, e.Type, e.Detail)
	}
	_, err := fmt.Fprintf(w, "decision: %s (threshold %.0f, saved %d, skipped %d, pins %d, %dms)\n",
		res.Decision, res.Threshold, len(res.Saved), len(res.Skipped), res.Pins, res.Elapsed)
	return err
}
