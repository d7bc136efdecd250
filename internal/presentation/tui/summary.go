package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/runner"
)

// summaryStyles holds the lipgloss styles of the run summary line.
type summaryStyles struct {
	id     lipgloss.Style
	status map[domain.Status]lipgloss.Style
	detail lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	if !IsTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	s := summaryStyles{
		id:     r.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
		detail: r.NewStyle().Faint(true),
		status: make(map[domain.Status]lipgloss.Style, len(statusColors)),
	}
	for st, color := range statusColors {
		s.status[st] = r.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return s
}

// PrintSummary writes the one-line outcome of a run:
//
//	run 1f0c...: SUCCESS after 3 tick(s), 1 run(s) (completed)
func PrintSummary(w io.Writer, res runner.Result) error {
	s := newSummaryStyles(w)
	_, err := fmt.Fprintf(w, "%s %s %s\n",
		s.id.Render("run "+res.RunID+":"),
		s.status[res.Status].Render(res.Status.String()),
		s.detail.Render(fmt.Sprintf("after %d tick(s), %d run(s) (%s)", res.Ticks, res.Runs, res.Reason)),
	)
	return err
}
