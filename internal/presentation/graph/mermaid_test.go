package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/eventdeck/internal/presentation/graph"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.GestureOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes and edges",
			contains: []string{
				"graph LR",
				`idle(("IDLE"))`,
				`settled[["SETTLED"]]`,
				`save{{"SAVE"}}`,
				`dragging["DRAGGING"]`,
				`idle -- "pointer down" --> dragging`,
				`releasing -. "regrab during snap-back" .-> dragging`,
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Committed save path",
			overlay: &graph.GestureOverlay{
				Visited:  []domain.GestureState{domain.GestureIdle, domain.GestureDragging, domain.GestureReleasing, domain.GestureSettled},
				Current:  domain.GestureSettled,
				Decision: domain.DecisionSave,
			},
			contains: []string{
				"class idle visited;",
				"class releasing visited;",
				"class settled current;",
				"class save save;",
			},
			excludes: []string{"class settled visited;", "class skip skip;"},
		},
		{
			name: "Snap-back path",
			overlay: &graph.GestureOverlay{
				Visited: []domain.GestureState{domain.GestureIdle, domain.GestureDragging, domain.GestureReleasing, domain.GestureSettled},
				Current: domain.GestureSettled,
			},
			contains: []string{"class none visited;"},
		},
		{
			name: "Mid-drag",
			overlay: &graph.GestureOverlay{
				Visited:  []domain.GestureState{domain.GestureIdle, domain.GestureDragging, domain.GestureDragging},
				Current:  domain.GestureDragging,
				Decision: domain.DecisionSave,
			},
			contains: []string{"class dragging current;"},
			excludes: []string{"class save save;", "class dragging visited;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, got, bad)
			}
		})
	}
}

func TestGenerateMermaid_VisitedDeduplicated(t *testing.T) {
	got := graph.GenerateMermaid(&graph.GestureOverlay{
		Visited: []domain.GestureState{domain.GestureIdle, domain.GestureIdle, domain.GestureIdle},
		Current: domain.GestureDragging,
	})
	assert.Equal(t, 1, strings.Count(got, "class idle visited;"))
}
