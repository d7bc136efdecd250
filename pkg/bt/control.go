package bt

import (
	"github.com/aretw0/arbor/pkg/domain"
)

// ControlNode is the base of every composite node. It owns an ordered list of
// children; the order is both registration order and execution priority.
type ControlNode struct {
	Base
	children []Node
}

// NewControlNode returns a ControlNode registered under typeID.
func NewControlNode(name, typeID string) ControlNode {
	b := NewBase(name, KindControl, NodeConfig{})
	b.typeID = typeID
	return ControlNode{Base: b}
}

// AddChild appends child. It fails after the tree has been assembled, or when the
// child already has a parent or is an ancestor of this node.
func (c *ControlNode) AddChild(child Node) error {
	if err := adopt(&c.Base, child); err != nil {
		return err
	}
	c.children = append(c.children, child)
	return nil
}

// Children returns a copy of the child list.
func (c *ControlNode) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// ChildrenCount returns the number of children.
func (c *ControlNode) ChildrenCount() int {
	return len(c.children)
}

func (c *ControlNode) childNodes() []Node {
	return c.children
}

// Halt halts every child. Composite policies with private state override it and
// call HaltChildren after resetting their cursor.
func (c *ControlNode) Halt() {
	c.HaltChildren(0)
}

// HaltChildren halts the children from index from (inclusive) to the end.
func (c *ControlNode) HaltChildren(from int) {
	for i := from; i < len(c.children); i++ {
		HaltNode(c.children[i])
	}
}

func (c *ControlNode) requireChildren() error {
	if len(c.children) == 0 {
		return domain.NewLogicError(c.name, "%s requires at least one child", c.typeID)
	}
	return nil
}

// addChildren is used by the convenience constructors; the first failure is kept
// and reported when the node is ticked or the tree is assembled.
func (c *ControlNode) addChildren(children []Node) {
	for _, child := range children {
		if err := c.AddChild(child); err != nil && c.buildErr == nil {
			c.buildErr = err
		}
	}
}

type composite interface {
	childNodes() []Node
}

// ChildrenOf returns the children of n (nil for leaves).
func ChildrenOf(n Node) []Node {
	if c, ok := n.(composite); ok {
		return c.childNodes()
	}
	return nil
}

// Attach makes child the next child of parent. Leaves cannot have children and
// decorators accept exactly one.
func Attach(parent, child Node) error {
	switch p := parent.(type) {
	case interface{ AddChild(Node) error }:
		return p.AddChild(child)
	case interface{ SetChild(Node) error }:
		return p.SetChild(child)
	}
	return domain.NewLogicError(parent.base().name, "%s nodes cannot have children", parent.base().kind)
}

func adopt(parent *Base, child Node) error {
	if child == nil {
		return domain.NewLogicError(parent.name, "child is nil")
	}
	if parent.frozen {
		return domain.NewLogicError(parent.name, "children are immutable after tree construction")
	}
	cb := child.base()
	if cb.parent != nil || cb.tree != nil {
		return domain.NewLogicError(parent.name, "node %q is already owned by %q", cb.name, cb.ParentName())
	}
	for p := parent; p != nil; p = p.parent {
		if p == cb {
			return domain.NewLogicError(parent.name, "attaching %q would create a cycle", cb.name)
		}
	}
	cb.parent = parent
	return nil
}
