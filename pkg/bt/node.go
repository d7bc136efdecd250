package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Kind classifies nodes by their role in the tree.
type Kind string

const (
	KindAction    Kind = "action"
	KindCondition Kind = "condition"
	KindControl   Kind = "control"
	KindDecorator Kind = "decorator"
)

// Node is the polymorphic unit of behavior.
//
// Implementations embed Base (directly or through ControlNode, DecoratorNode or one
// of the leaf helpers), which carries the name, configuration and current status.
// Tick must never return StatusIdle. Halt must be idempotent, must not block, and
// must leave the node ready to restart as if freshly constructed.
type Node interface {
	Tick(ctx context.Context) (domain.Status, error)
	Halt()
	base() *Base
}

// Base holds the state shared by every node. The zero value is not usable;
// create it with NewBase.
type Base struct {
	name     string
	typeID   string
	kind     Kind
	uid      int
	config   NodeConfig
	status   domain.Status
	parent   *Base // non-owning, diagnostics only
	tree     *Tree // non-owning, set when the tree is assembled
	frozen   bool
	ticking  bool
	buildErr error
}

// NewBase returns a Base for a node of the given kind.
func NewBase(name string, kind Kind, cfg NodeConfig) Base {
	return Base{
		name:   name,
		typeID: name,
		kind:   kind,
		uid:    -1,
		config: cfg,
	}
}

func (b *Base) base() *Base { return b }

// Name returns the human-readable (non-unique) name.
func (b *Base) Name() string { return b.name }

// Type returns the registration ID, e.g. "SequenceStar".
func (b *Base) Type() string { return b.typeID }

// SetRegistrationID records the type name the node was registered under.
func (b *Base) SetRegistrationID(id string) { b.typeID = id }

// Kind returns the node's role.
func (b *Base) Kind() Kind { return b.kind }

// UID returns the arena index of the node, or -1 before the tree is assembled.
func (b *Base) UID() int { return b.uid }

// Status returns the status stored by the last tick or halt.
func (b *Base) Status() domain.Status { return b.status }

// Config returns the node configuration.
func (b *Base) Config() *NodeConfig { return &b.config }

// Configure replaces the configuration. It fails once the tree has been assembled.
func (b *Base) Configure(cfg NodeConfig) error {
	if b.frozen {
		return domain.NewLogicError(b.name, "configuration is immutable after tree construction")
	}
	b.config = cfg
	return nil
}

// ParentName returns the name of the parent node, if any.
func (b *Base) ParentName() string {
	if b.parent == nil {
		return ""
	}
	return b.parent.name
}

func (b *Base) setStatus(status domain.Status) {
	prev := b.status
	b.status = status
	if prev != status && b.tree != nil {
		b.tree.notify(b, prev, status)
	}
}

// BaseOf exposes the embedded Base of any node.
func BaseOf(n Node) *Base {
	return n.base()
}

// Execute ticks n on behalf of its parent (or the tree) and records the result.
//
// It is the only way a control node should tick a child: it rejects IDLE with a
// LogicError, forbids re-entrant ticks and notifies observers of the transition.
// Errors returned by the node are passed through untouched.
func Execute(ctx context.Context, n Node) (domain.Status, error) {
	b := n.base()
	if b.buildErr != nil {
		return domain.StatusIdle, b.buildErr
	}
	if b.ticking {
		return domain.StatusIdle, domain.NewLogicError(b.name, "node ticked re-entrantly")
	}

	b.ticking = true
	status, err := func() (domain.Status, error) {
		defer func() { b.ticking = false }()
		return n.Tick(ctx)
	}()

	if err != nil {
		return domain.StatusIdle, err
	}
	if status == domain.StatusIdle {
		return domain.StatusIdle, domain.NewLogicError(b.name, "a node must never return IDLE from Tick")
	}
	b.setStatus(status)
	return status, nil
}

// HaltNode halts n and forces its status back to IDLE.
// It is safe on any node in any state and calling it twice equals calling it once.
func HaltNode(n Node) {
	n.Halt()
	n.base().setStatus(domain.StatusIdle)
}
