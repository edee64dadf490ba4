package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/eventdeck/pkg/analyzer"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// AnalysisMarkdown lays out an analysis result as a markdown card.
// title replaces an empty event name.
func AnalysisMarkdown(res *analyzer.Result, title string) string {
	a := res.Analysis
	name := a.EventName
	if name == "" {
		name = title
	}
	if name == "" {
		name = analyzer.DefaultTitle
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if a.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", a.Description)
	}

	sb.WriteString("| | |\n|---|---|\n")
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&sb, "| **%s** | %s |\n", k, strings.ReplaceAll(v, "|", `\|`))
		}
	}
	row("Fecha", a.Date)
	row("Hora", a.Time)
	row("Lugar", a.Location)
	row("Confianza", string(a.Confidence))
	if res.Platform != "" {
		row("Plataforma", res.Platform)
	}
	if res.Post != nil {
		row("Autor", res.Post.Author)
	}
	row("Fuente", res.SourceURL)
	sb.WriteString("\n")

	if a.ExtractedText != "" {
		fmt.Fprintf(&sb, "> %s\n\n", strings.ReplaceAll(strings.TrimSpace(a.ExtractedText), "\n", "\n> "))
	}
	if res.Metadata.Model != "" {
		fmt.Fprintf(&sb, "_%s, %d tokens_\n", res.Metadata.Model, res.Metadata.TokensUsed)
	}
	return sb.String()
}
