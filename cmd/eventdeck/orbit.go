package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/eventdeck"
	"github.com/aretw0/eventdeck/internal/config"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/frame"
	"github.com/aretw0/eventdeck/pkg/observability"
	"github.com/aretw0/eventdeck/pkg/orbit"
)

type orbitSample struct {
	At        int64            `json:"at_ms"`
	Phase     float64          `json:"phase"`
	Rotating  bool             `json:"rotating"`
	Positions []orbit.Position `json:"positions"`
}

type orbitResult struct {
	Members    int           `json:"members"`
	RotationAt int64         `json:"rotation_at_ms"`
	Samples    []orbitSample `json:"samples"`
}

var orbitCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Sample the avatar orbit on a virtual clock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		n, _ := cmd.Flags().GetInt("members")
		duration, _ := cmd.Flags().GetDuration("duration")
		every, _ := cmd.Flags().GetDuration("every")
		asJSON, _ := cmd.Flags().GetBool("json")

		res, err := runOrbit(app.cfg, n, duration, every, app.hooks())
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return printOrbit(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(orbitCmd)
	orbitCmd.Flags().Int("members", 4, "Number of orbiting avatars")
	orbitCmd.Flags().Duration("duration", 3*time.Second, "Virtual time to run")
	orbitCmd.Flags().Duration("every", 250*time.Millisecond, "Sampling interval")
	orbitCmd.Flags().Bool("json", false, "Print the samples as JSON")
}

// runOrbit starts an orbit of n members and samples it every interval.
func runOrbit(cfg config.Config, n int, duration, every time.Duration, hooks domain.LifecycleHooks) (*orbitResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("members must be at least 1, got %d", n)
	}
	if every <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %s", every)
	}

	clock := frame.NewManualClock(time.Unix(0, 0))
	start := clock.Now()
	res := &orbitResult{Members: n, RotationAt: -1}

	started := domain.LifecycleHooks{
		OnOrbitStart: func(_ context.Context, e *domain.OrbitEvent) {
			res.RotationAt = e.Timestamp.Sub(start).Milliseconds()
		},
	}
	engine, err := eventdeck.New(
		eventdeck.WithConfig(cfg),
		eventdeck.WithClock(clock),
		eventdeck.WithLifecycleHooks(observability.Chain(started, hooks)),
	)
	if err != nil {
		return nil, err
	}

	members := make([]orbit.Member, n)
	for i := range members {
		members[i] = orbit.Member{Name: fmt.Sprintf("m%d", i+1)}
	}
	anim, err := engine.NewOrbit(members)
	if err != nil {
		return nil, err
	}
	defer anim.Stop()
	anim.Start()

	sched := engine.Scheduler()
	next := time.Duration(0)
	for elapsed := time.Duration(0); elapsed <= duration; elapsed += simFrame {
		if elapsed >= next {
			res.Samples = append(res.Samples, orbitSample{
				At:        elapsed.Milliseconds(),
				Phase:     anim.Phase(),
				Rotating:  anim.Rotating(),
				Positions: anim.Positions(),
			})
			next += every
		}
		clock.Advance(simFrame)
		sched.Tick()
	}
	return res, nil
}

func printOrbit(w io.Writer, res *orbitResult) error {
	if res.RotationAt >= 0 {
		fmt.Fprintf(w, "%d members, rotation from %dms\n", res.Members, res.RotationAt)
	} else {
		fmt.Fprintf(w, "%d members, rotation not started\n", res.Members)
	}
	for _, s := range res.Samples {
		parts := make([]string, len(s.Positions))
		for i, p := range s.Positions {
			side := "back"
			if p.Front {
				side = "front"
			}
			parts[i] = fmt.Sprintf("%s(%+.0f,%+.0f %.2f %s)", p.Member.Name, p.X, p.Y, p.Scale, side)
		}
		if _, err := fmt.Fprintf(w, "%6dms phase=%6.1f %s\n", s.At, s.Phase, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
