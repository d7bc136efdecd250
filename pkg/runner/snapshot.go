package runner

import (
	"time"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// Snapshot is a point-in-time copy of a run.
type Snapshot struct {
	RunID      string         `json:"run_id"`
	TreeID     string         `json:"tree_id"`
	Running    bool           `json:"running"`
	Tick       uint64         `json:"tick"`
	Runs       int            `json:"runs"`
	Status     domain.Status  `json:"status"`
	Reason     Reason         `json:"reason,omitempty"`
	Error      string         `json:"error,omitempty"`
	Nodes      []bt.NodeState `json:"nodes"`
	Blackboard map[string]any `json:"blackboard"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Snapshot returns a copy of the latest state published by the run.
// It is safe to call from any goroutine.
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.snapshot
	s.Nodes = append([]bt.NodeState(nil), r.snapshot.Nodes...)
	s.Blackboard = make(map[string]any, len(r.snapshot.Blackboard))
	for k, v := range r.snapshot.Blackboard {
		s.Blackboard[k] = v
	}
	return s
}

// publish runs on the ticking goroutine, between ticks.
func (r *Runner) publish(tree *bt.Tree, res Result, running bool, err error) {
	s := Snapshot{
		RunID:      r.RunID,
		TreeID:     tree.ID(),
		Running:    running,
		Tick:       res.Ticks,
		Runs:       res.Runs,
		Status:     res.Status,
		Reason:     res.Reason,
		Nodes:      tree.Statuses(),
		Blackboard: tree.Blackboard().Snapshot(),
		UpdatedAt:  time.Now(),
	}
	if err != nil {
		s.Error = err.Error()
	}

	r.mu.Lock()
	r.snapshot = s
	r.mu.Unlock()
}
