package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Sequence ticks its children in order and restarts from the first child on every
// tick. It fails (or keeps running) as soon as a child does and succeeds when every
// child succeeds within the same tick.
type Sequence struct {
	ControlNode
	cursor int
}

// NewSequence creates a memory-less sequence.
func NewSequence(name string, children ...Node) *Sequence {
	s := &Sequence{ControlNode: NewControlNode(name, "Sequence")}
	s.addChildren(children)
	return s
}

// Cursor returns the index of the last child evaluated.
func (s *Sequence) Cursor() int { return s.cursor }

func (s *Sequence) Tick(ctx context.Context) (domain.Status, error) {
	if err := s.requireChildren(); err != nil {
		return domain.StatusIdle, err
	}

	for s.cursor = 0; s.cursor < len(s.children); s.cursor++ {
		status, err := Execute(ctx, s.children[s.cursor])
		if err != nil {
			return domain.StatusIdle, err
		}

		switch status {
		case domain.StatusRunning:
			s.HaltChildren(s.cursor + 1)
			return status, nil
		case domain.StatusFailure:
			// children before the cursor succeeded this tick and stay as they are
			s.HaltChildren(s.cursor)
			return status, nil
		}
	}

	s.HaltChildren(0)
	s.cursor = 0
	return domain.StatusSuccess, nil
}

func (s *Sequence) Halt() {
	s.cursor = 0
	s.ControlNode.Halt()
}
