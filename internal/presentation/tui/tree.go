package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

var statusColors = map[domain.Status]string{
	domain.StatusIdle:    "#9ca3af",
	domain.StatusRunning: "#facc15",
	domain.StatusSuccess: "#4ade80",
	domain.StatusFailure: "#f87171",
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintTree writes one line per node, indented by depth:
//
//	Sequence root [RUNNING]
//	  Action approach (MoveTo) [SUCCESS]
func PrintTree(w io.Writer, tree *bt.Tree) error {
	return PrintStates(w, tree.Statuses())
}

// PrintStates is PrintTree over a snapshot, for callers that do not own the tree.
func PrintStates(w io.Writer, states []bt.NodeState) error {
	out := NewOutput(w)
	for _, s := range states {
		status := out.String("[" + s.Status.String() + "]").Foreground(out.Color(statusColors[s.Status]))
		if s.Status == domain.StatusRunning {
			status = status.Bold()
		}
		if _, err := fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", s.Depth), describe(out, s), status); err != nil {
			return err
		}
	}
	return nil
}

func describe(out *termenv.Output, s bt.NodeState) string {
	if s.Name == "" || s.Name == s.Type {
		return out.String(s.Type).Bold().String()
	}
	return fmt.Sprintf("%s %s", out.String(s.Name).Bold(), out.String("("+s.Type+")").Faint())
}
