package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Fallback (a.k.a. Selector) ticks its children in order until one of them does
// not fail. It restarts from the first child on every tick.
type Fallback struct {
	ControlNode
	cursor int
}

// NewFallback creates a memory-less fallback.
func NewFallback(name string, children ...Node) *Fallback {
	f := &Fallback{ControlNode: NewControlNode(name, "Fallback")}
	f.addChildren(children)
	return f
}

// Cursor returns the index of the last child evaluated.
func (f *Fallback) Cursor() int { return f.cursor }

func (f *Fallback) Tick(ctx context.Context) (domain.Status, error) {
	if err := f.requireChildren(); err != nil {
		return domain.StatusIdle, err
	}

	for f.cursor = 0; f.cursor < len(f.children); f.cursor++ {
		status, err := Execute(ctx, f.children[f.cursor])
		if err != nil {
			return domain.StatusIdle, err
		}

		switch status {
		case domain.StatusRunning:
			f.HaltChildren(f.cursor + 1)
			return status, nil
		case domain.StatusSuccess:
			f.HaltChildren(f.cursor)
			return status, nil
		}
	}

	f.HaltChildren(0)
	f.cursor = 0
	return domain.StatusFailure, nil
}

func (f *Fallback) Halt() {
	f.cursor = 0
	f.ControlNode.Halt()
}
