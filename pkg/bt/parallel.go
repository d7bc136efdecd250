package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Parallel ticks every child that has not completed yet on each tick, regardless
// of RUNNING siblings, and aggregates the results with two thresholds.
//
// A negative threshold counts from the number of children: -1 means "all of them".
// Once either threshold is reached the running children are halted and the node
// resets for the next round.
type Parallel struct {
	ControlNode
	successThreshold int
	failureThreshold int
	completed        []bool
	successCount     int
	failureCount     int
}

// NewParallel creates a parallel node. The usual defaults are -1 (all children must
// succeed) and 1 (one failure is enough).
func NewParallel(name string, successThreshold, failureThreshold int, children ...Node) *Parallel {
	p := &Parallel{
		ControlNode:      NewControlNode(name, "Parallel"),
		successThreshold: successThreshold,
		failureThreshold: failureThreshold,
	}
	p.addChildren(children)
	return p
}

// Counts returns the number of children that succeeded and failed this round.
func (p *Parallel) Counts() (success, failure int) {
	return p.successCount, p.failureCount
}

func (p *Parallel) threshold(t int) int {
	if t < 0 {
		return len(p.children) + 1 + t
	}
	return t
}

func (p *Parallel) Tick(ctx context.Context) (domain.Status, error) {
	if err := p.requireChildren(); err != nil {
		return domain.StatusIdle, err
	}

	count := len(p.children)
	successNeeded := p.threshold(p.successThreshold)
	failureNeeded := p.threshold(p.failureThreshold)
	if successNeeded <= 0 || successNeeded > count {
		return domain.StatusIdle, domain.NewLogicError(p.name, "success threshold %d is out of range for %d children", p.successThreshold, count)
	}
	if failureNeeded <= 0 || failureNeeded > count {
		return domain.StatusIdle, domain.NewLogicError(p.name, "failure threshold %d is out of range for %d children", p.failureThreshold, count)
	}
	if len(p.completed) != count {
		p.completed = make([]bool, count)
	}

	for i, child := range p.children {
		if p.completed[i] {
			continue
		}
		status, err := Execute(ctx, child)
		if err != nil {
			return domain.StatusIdle, err
		}

		switch status {
		case domain.StatusSuccess:
			p.completed[i] = true
			p.successCount++
		case domain.StatusFailure:
			p.completed[i] = true
			p.failureCount++
		}

		if p.successCount >= successNeeded {
			p.reset()
			return domain.StatusSuccess, nil
		}
		if p.failureCount >= failureNeeded || count-p.failureCount < successNeeded {
			p.reset()
			return domain.StatusFailure, nil
		}
	}
	return domain.StatusRunning, nil
}

func (p *Parallel) reset() {
	p.HaltChildren(0)
	p.completed = nil
	p.successCount = 0
	p.failureCount = 0
}

func (p *Parallel) Halt() {
	p.reset()
}
