package dsl

import (
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node     domain.NodeSpec
	children []*NodeBuilder
}

// Node starts a node of any registered type.
func Node(nodeType string, children ...*NodeBuilder) *NodeBuilder {
	return &NodeBuilder{node: domain.NodeSpec{Type: nodeType}, children: children}
}

// Action starts a leaf of the given type.
func Action(nodeType string) *NodeBuilder {
	return Node(nodeType)
}

// Condition starts a condition leaf of the given type.
func Condition(nodeType string) *NodeBuilder {
	return Node(nodeType)
}

func Sequence(name string, children ...*NodeBuilder) *NodeBuilder {
	return Node("Sequence", children...).Name(name)
}

func SequenceStar(name string, children ...*NodeBuilder) *NodeBuilder {
	return Node("SequenceStar", children...).Name(name)
}

func Fallback(name string, children ...*NodeBuilder) *NodeBuilder {
	return Node("Fallback", children...).Name(name)
}

// Parallel starts a parallel node; negative thresholds count from the number of children.
func Parallel(name string, successThreshold, failureThreshold int, children ...*NodeBuilder) *NodeBuilder {
	return Node("Parallel", children...).Name(name).
		Port("success_threshold", strconv.Itoa(successThreshold)).
		Port("failure_threshold", strconv.Itoa(failureThreshold))
}

func Inverter(child *NodeBuilder) *NodeBuilder {
	return Node("Inverter", child)
}

func ForceSuccess(child *NodeBuilder) *NodeBuilder {
	return Node("ForceSuccess", child)
}

func ForceFailure(child *NodeBuilder) *NodeBuilder {
	return Node("ForceFailure", child)
}

// Retry re-runs child up to attempts times (-1 forever).
func Retry(attempts int, child *NodeBuilder) *NodeBuilder {
	return Node("Retry", child).Port("num_attempts", strconv.Itoa(attempts))
}

// Repeat re-runs child cycles times (-1 forever).
func Repeat(cycles int, child *NodeBuilder) *NodeBuilder {
	return Node("Repeat", child).Port("num_cycles", strconv.Itoa(cycles))
}

// SubTree inlines the tree with the given ID.
func SubTree(id string) *NodeBuilder {
	return Node(domain.SubTreeType).Port("id", id)
}

// Name sets the display name.
func (n *NodeBuilder) Name(name string) *NodeBuilder {
	n.node.Name = name
	return n
}

// Port sets a literal port value.
func (n *NodeBuilder) Port(name, value string) *NodeBuilder {
	if n.node.Ports == nil {
		n.node.Ports = make(map[string]string)
	}
	n.node.Ports[name] = value
	return n
}

// Ref binds a port to a blackboard entry.
func (n *NodeBuilder) Ref(name, key string) *NodeBuilder {
	return n.Port(name, "{"+key+"}")
}

// Child appends children.
func (n *NodeBuilder) Child(children ...*NodeBuilder) *NodeBuilder {
	n.children = append(n.children, children...)
	return n
}

// Build returns the underlying domain.NodeSpec.
func (n *NodeBuilder) Build() domain.NodeSpec {
	out := n.node.Clone()
	for _, c := range n.children {
		if c != nil {
			out.Children = append(out.Children, c.Build())
		}
	}
	return out
}
