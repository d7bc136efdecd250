package observability

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
)

// TraceEntry is one recorded transition.
type TraceEntry struct {
	Time     time.Time     `json:"time"`
	Tree     string        `json:"tree,omitempty"`
	UID      int           `json:"uid"`
	Node     string        `json:"node"`
	Type     string        `json:"type"`
	Previous domain.Status `json:"previous"`
	Current  domain.Status `json:"current"`
}

// Recorder keeps the most recent transitions in memory. It is safe for
// concurrent use, so a monitor can read it while the tree runs.
//
// A bounded recorder is a ring: once full, each new entry overwrites the oldest
// in constant time.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	entries  []TraceEntry
	head     int // index of the oldest entry once the ring is full
	dropped  int
}

// NewRecorder keeps at most capacity entries (unbounded when capacity <= 0).
func NewRecorder(capacity int) *Recorder {
	return &Recorder{capacity: capacity}
}

// Hooks returns the hooks that feed the recorder.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(_ context.Context, e *domain.TransitionEvent) {
			r.add(TraceEntry{
				Time:     e.Timestamp,
				Tree:     e.TreeID,
				UID:      e.NodeUID,
				Node:     e.NodeName,
				Type:     e.NodeType,
				Previous: e.Previous,
				Current:  e.Current,
			})
		},
	}
}

func (r *Recorder) add(e TraceEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capacity > 0 && len(r.entries) == r.capacity {
		r.entries[r.head] = e
		r.head = (r.head + 1) % r.capacity
		r.dropped++
		return
	}
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded transitions, oldest first.
func (r *Recorder) Entries() []TraceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEntry, 0, len(r.entries))
	out = append(out, r.entries[r.head:]...)
	return append(out, r.entries[:r.head]...)
}

// Dropped returns how many entries were evicted to respect the capacity.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// WriteJSON writes the recorded transitions as a JSON array.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Entries())
}

type chromeEvent struct {
	Name  string         `json:"name"`
	Cat   string         `json:"cat"`
	Phase string         `json:"ph"`
	TS    int64          `json:"ts"`
	PID   int            `json:"pid"`
	TID   int            `json:"tid"`
	Args  map[string]any `json:"args,omitempty"`
}

// WriteChromeTrace writes the trace in the Chrome trace event format, readable
// by chrome://tracing and Perfetto. A node's activity spans from the moment it
// leaves IDLE (or restarts after completing) until it completes or is halted;
// each node gets its own track.
func (r *Recorder) WriteChromeTrace(w io.Writer) error {
	entries := r.Entries()
	events := make([]chromeEvent, 0, len(entries))
	for _, e := range entries {
		base := chromeEvent{Name: e.Node, Cat: e.Type, TS: e.Time.UnixMicro(), PID: 1, TID: e.UID}

		if e.Current != domain.StatusIdle && (e.Previous == domain.StatusIdle || e.Previous.IsCompleted()) {
			begin := base
			begin.Phase = "B"
			events = append(events, begin)
		}
		switch {
		case e.Current.IsCompleted():
			end := base
			end.Phase = "E"
			end.Args = map[string]any{"status": e.Current.String()}
			events = append(events, end)
		case e.Current == domain.StatusIdle && e.Previous == domain.StatusRunning:
			end := base
			end.Phase = "E"
			end.Args = map[string]any{"status": "HALTED"}
			events = append(events, end)
		}
	}

	return json.NewEncoder(w).Encode(map[string]any{
		"traceEvents":     events,
		"displayTimeUnit": "ms",
	})
}
