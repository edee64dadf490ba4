package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/eventdeck/pkg/domain"
)

// GestureOverlay contains the path one gesture took, to highlight on the diagram.
type GestureOverlay struct {
	Visited  []domain.GestureState
	Current  domain.GestureState
	Decision domain.Decision
}

type edge struct {
	from, to string
	label    string
	dotted   bool
}

// The gesture machine. Decision nodes hang off SETTLED.
var gestureEdges = []edge{
	{from: "idle", to: "dragging", label: "pointer down"},
	{from: "dragging", to: "releasing", label: "pointer up / cancel"},
	{from: "releasing", to: "dragging", label: "regrab during snap-back", dotted: true},
	{from: "releasing", to: "settled", label: "animation done"},
	{from: "releasing", to: "settled", label: "backstop", dotted: true},
	{from: "settled", to: "save", label: "offset >= threshold"},
	{from: "settled", to: "skip", label: "offset <= -threshold"},
	{from: "settled", to: "none", label: "inside threshold"},
}

// GenerateMermaid produces a Mermaid flowchart of the gesture state machine.
// Shapes:
// - Idle: ((Circle))
// - Settled: [[Subroutine]]
// - Decisions: {{Hexagon}}
// - Default: [Rectangle]
// When overlay is set, visited states, the current state and the decision
// taken are styled.
func GenerateMermaid(overlay *GestureOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	nodes := []string{"idle", "dragging", "releasing", "settled", "save", "skip", "none"}
	for _, id := range nodes {
		opener, closer := "[", "]"
		switch id {
		case "idle":
			opener, closer = "((", "))"
		case "settled":
			opener, closer = "[[", "]]"
		case "save", "skip", "none":
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, strings.ToUpper(id), closer)
	}

	for _, e := range gestureEdges {
		arrow := fmt.Sprintf("-- \"%s\" -->", e.label)
		if e.dotted {
			arrow = fmt.Sprintf("-. \"%s\" .->", e.label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.from, arrow, e.to)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on both themes
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef save fill:#10b981,stroke:#047857,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef skip fill:#ef4444,stroke:#b91c1c,stroke-width:3px,color:#000;\n")

		seen := make(map[domain.GestureState]bool)
		for _, s := range overlay.Visited {
			if seen[s] || s == overlay.Current {
				continue
			}
			seen[s] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", s)
		}
		fmt.Fprintf(&sb, "    class %s current;\n", overlay.Current)

		if overlay.Current == domain.GestureSettled {
			switch overlay.Decision {
			case domain.DecisionSave:
				sb.WriteString("    class save save;\n")
			case domain.DecisionSkip:
				sb.WriteString("    class skip skip;\n")
			default:
				sb.WriteString("    class none visited;\n")
			}
		}
	}

	return sb.String()
}
