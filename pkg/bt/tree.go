package bt

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
)

// Tree owns a root node, every descendant (kept in an arena indexed by UID, in
// pre-order) and the blackboard shared by all of them.
type Tree struct {
	id     string
	root   Node
	nodes  []Node
	depths []int
	bb     *blackboard.Blackboard
	hooks  domain.LifecycleHooks

	tickCtx context.Context
	ticks   uint64
	ticking atomic.Bool
	closed  bool
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithID names the tree in events and metrics.
func WithID(id string) TreeOption {
	return func(t *Tree) {
		t.id = id
	}
}

// WithLifecycleHooks registers passive observers.
func WithLifecycleHooks(hooks domain.LifecycleHooks) TreeOption {
	return func(t *Tree) {
		t.hooks = hooks
	}
}

// NewTree assembles a tree around root. Every node gets its UID, nodes without a
// blackboard get bb, and the structure is frozen: no child can be added afterwards.
// A nil bb creates an empty blackboard.
func NewTree(root Node, bb *blackboard.Blackboard, opts ...TreeOption) (*Tree, error) {
	if root == nil {
		return nil, domain.NewLogicError("", "tree root is nil")
	}
	if root.base().parent != nil {
		return nil, domain.NewLogicError(root.base().name, "tree root must not have a parent")
	}
	if bb == nil {
		bb = blackboard.New()
	}

	t := &Tree{root: root, bb: bb}
	for _, opt := range opts {
		opt(t)
	}

	var buildErr error
	var visit func(n Node, depth int)
	visit = func(n Node, depth int) {
		b := n.base()
		if b.tree != nil && buildErr == nil {
			buildErr = domain.NewLogicError(b.name, "node already belongs to a tree")
		}
		if b.buildErr != nil && buildErr == nil {
			buildErr = b.buildErr
		}
		b.uid = len(t.nodes)
		b.tree = t
		b.frozen = true
		if b.config.Blackboard == nil {
			b.config.Blackboard = bb
		}
		t.nodes = append(t.nodes, n)
		t.depths = append(t.depths, depth)
		for _, child := range ChildrenOf(n) {
			visit(child, depth+1)
		}
	}
	visit(root, 0)

	if buildErr != nil {
		return nil, buildErr
	}
	return t, nil
}

// ID returns the tree identifier.
func (t *Tree) ID() string { return t.id }

// Root returns the root node.
func (t *Tree) Root() Node { return t.root }

// Blackboard returns the shared blackboard.
func (t *Tree) Blackboard() *blackboard.Blackboard { return t.bb }

// Status returns the root status.
func (t *Tree) Status() domain.Status { return t.root.base().status }

// TickCount returns the number of completed root ticks.
func (t *Tree) TickCount() uint64 { return t.ticks }

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int { return len(t.nodes) }

// Node returns the node with the given UID.
func (t *Tree) Node(uid int) (Node, bool) {
	if uid < 0 || uid >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[uid], true
}

// Tick ticks the root once. It must only be called from one goroutine at a time;
// a concurrent call fails with a LogicError.
func (t *Tree) Tick(ctx context.Context) (domain.Status, error) {
	if t.closed {
		return domain.StatusIdle, domain.NewLogicError(t.id, "tree is closed")
	}
	if !t.ticking.CompareAndSwap(false, true) {
		return domain.StatusIdle, domain.NewLogicError(t.id, "tree ticked concurrently")
	}
	defer t.ticking.Store(false)

	t.tickCtx = ctx
	defer func() { t.tickCtx = nil }()

	start := time.Now()
	status, err := Execute(ctx, t.root)
	t.ticks++

	if t.hooks.OnTick != nil {
		t.hooks.OnTick(ctx, &domain.TickEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTreeTick, TreeID: t.id},
			Tick:      t.ticks,
			Status:    status,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	return status, err
}

// Halt halts the whole tree, leaving every node IDLE.
func (t *Tree) Halt() {
	if t.closed {
		return
	}
	HaltNode(t.root)
}

// Close halts the tree and tears it down children before parents, closing every
// node that implements io.Closer. The tree cannot be ticked afterwards.
func (t *Tree) Close() error {
	if t.closed {
		return nil
	}
	t.Halt()

	var errs []error
	for i := len(t.nodes) - 1; i >= 0; i-- {
		if c, ok := t.nodes[i].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	t.closed = true
	return errors.Join(errs...)
}

// Walk visits every node in pre-order with its depth. Returning false stops the walk.
func (t *Tree) Walk(fn func(n Node, depth int) bool) {
	for i, n := range t.nodes {
		if !fn(n, t.depths[i]) {
			return
		}
	}
}

// NodeState is a point-in-time view of one node.
type NodeState struct {
	UID    int           `json:"uid"`
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Kind   Kind          `json:"kind"`
	Depth  int           `json:"depth"`
	Parent int           `json:"parent"`
	Status domain.Status `json:"status"`
}

// Statuses returns the state of every node in pre-order.
func (t *Tree) Statuses() []NodeState {
	out := make([]NodeState, 0, len(t.nodes))
	for i, n := range t.nodes {
		b := n.base()
		parent := -1
		if b.parent != nil {
			parent = b.parent.uid
		}
		out = append(out, NodeState{
			UID:    b.uid,
			Name:   b.name,
			Type:   b.typeID,
			Kind:   b.kind,
			Depth:  t.depths[i],
			Parent: parent,
			Status: b.status,
		})
	}
	return out
}

func (t *Tree) notify(b *Base, prev, cur domain.Status) {
	if t.hooks.OnStatusChange == nil {
		return
	}
	ctx := t.tickCtx
	if ctx == nil {
		ctx = context.Background()
	}
	t.hooks.OnStatusChange(ctx, &domain.TransitionEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStatusChange, TreeID: t.id},
		NodeUID:   b.uid,
		NodeName:  b.name,
		NodeType:  b.typeID,
		Previous:  prev,
		Current:   cur,
	})
}
