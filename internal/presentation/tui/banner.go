package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII banner for eventdeck.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Red to green, the skip and save glows
	lines := []struct{ text, color string }{
		{"                       _      _           _    ", "#ef4444"},
		{"   _____   _____ _ __ | |_ __| | ___  ___| | __", "#f97316"},
		{"  / _ \\ \\ / / _ \\ '_ \\| __/ _` |/ _ \\/ __| |/ /", "#eab308"},
		{" |  __/\\ V /  __/ | | | || (_| |  __/ (__|   < ", "#84cc16"},
		{"  \\___| \\_/ \\___|_| |_|\\__\\__,_|\\___|\\___|_|\\_\\", "#10b981"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
