package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStatusChange EventType = "status_change"
	EventTreeTick     EventType = "tree_tick"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TreeID    string    `json:"tree_id,omitempty"`
}

// TransitionEvent is emitted whenever a node changes status.
type TransitionEvent struct {
	EventBase
	NodeUID  int    `json:"node_uid"`
	NodeName string `json:"node_name"`
	NodeType string `json:"node_type"`
	Previous Status `json:"previous"`
	Current  Status `json:"current"`
}

// TickEvent is emitted after the root of a tree has been ticked once.
type TickEvent struct {
	EventBase
	Tick     uint64        `json:"tick"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks are passive: they run on the ticking goroutine and must not tick or halt nodes.
type LifecycleHooks struct {
	OnStatusChange func(context.Context, *TransitionEvent)
	OnTick         func(context.Context, *TickEvent)
}
