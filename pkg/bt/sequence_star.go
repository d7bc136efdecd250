package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// SequenceStar is a sequence with memory: its cursor persists across ticks.
//
// Children that already succeeded are not ticked again, and a failure does not
// rewind the cursor, so the next tick resumes at the child that failed. The cursor
// goes back to zero only when every child has succeeded or the node is halted.
type SequenceStar struct {
	ControlNode
	cursor int
}

// NewSequenceStar creates a sequence with memory.
func NewSequenceStar(name string, children ...Node) *SequenceStar {
	s := &SequenceStar{ControlNode: NewControlNode(name, "SequenceStar")}
	s.addChildren(children)
	return s
}

// Cursor returns the index of the next child to tick.
func (s *SequenceStar) Cursor() int { return s.cursor }

func (s *SequenceStar) Tick(ctx context.Context) (domain.Status, error) {
	if err := s.requireChildren(); err != nil {
		return domain.StatusIdle, err
	}

	count := len(s.children)
	for s.cursor < count {
		status, err := Execute(ctx, s.children[s.cursor])
		if err != nil {
			return domain.StatusIdle, err
		}

		switch status {
		case domain.StatusRunning:
			return status, nil
		case domain.StatusFailure:
			// keep the cursor: the next tick resumes here
			s.HaltChildren(s.cursor)
			return status, nil
		case domain.StatusSuccess:
			s.cursor++
		}
	}

	s.HaltChildren(0)
	s.cursor = 0
	return domain.StatusSuccess, nil
}

func (s *SequenceStar) Halt() {
	s.cursor = 0
	s.ControlNode.Halt()
}
