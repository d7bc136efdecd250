package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the arbor ASCII art banner to w, colored when w is a terminal.
func PrintBanner(w io.Writer) {
	out := NewOutput(w)
	// Using a subtle gradient-like color scheme (Green/Teal)
	lines := []struct{ text, color string }{
		{"                _               ", "#86efac"},
		{"   __ _ _ __ __| |__   ___  _ __", "#4ade80"},
		{"  / _` | '__/ _` '_ \\ / _ \\| '__|", "#34d399"},
		{" | (_| | | | (_| |_) | (_) | |  ", "#2dd4bf"},
		{"  \\__,_|_|  \\__,_.__/ \\___/|_|  ", "#22d3ee"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// NewOutput returns a termenv output for w. Colors are only enabled when w is a
// terminal.
func NewOutput(w io.Writer) *termenv.Output {
	if !IsTerminal(w) {
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return termenv.NewOutput(w)
}
