package domain

// NodeSpec is the declarative description of one node and its subtree.
// Children order is both registration order and execution priority.
type NodeSpec struct {
	Type     string            `json:"type" yaml:"type" mapstructure:"type"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Ports    map[string]string `json:"ports,omitempty" yaml:"ports,omitempty" mapstructure:"ports"`
	Children []NodeSpec        `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

// DisplayName returns Name, falling back to Type.
func (n NodeSpec) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Type
}

// TreeSpec describes one tree: its root and the initial blackboard entries.
type TreeSpec struct {
	ID         string         `json:"id" yaml:"id" mapstructure:"id"`
	Root       NodeSpec       `json:"root" yaml:"root" mapstructure:"root"`
	Blackboard map[string]any `json:"blackboard,omitempty" yaml:"blackboard,omitempty" mapstructure:"blackboard"`
}

// Document is a tree file: one or more trees and the name of the one to run.
type Document struct {
	Main  string     `json:"main,omitempty" yaml:"main,omitempty" mapstructure:"main"`
	Trees []TreeSpec `json:"trees" yaml:"trees" mapstructure:"trees"`
}

// MainTree returns the tree named by Main, or the first tree when Main is empty.
func (d *Document) MainTree() (*TreeSpec, bool) {
	if len(d.Trees) == 0 {
		return nil, false
	}
	if d.Main == "" {
		return &d.Trees[0], true
	}
	return d.Tree(d.Main)
}

// Walk visits the node and its descendants in pre-order with their depth.
func (n NodeSpec) Walk(fn func(node NodeSpec, depth int)) {
	n.walk(fn, 0)
}

func (n NodeSpec) walk(fn func(NodeSpec, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// SubTreeType is the node type that inlines another tree of the same document.
// Its "id" port names the tree.
const SubTreeType = "SubTree"

// PortSpec declares a port accepted by a node type.
type PortSpec struct {
	Name        string `json:"name" yaml:"name"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tree returns the tree with the given ID.
func (d *Document) Tree(id string) (*TreeSpec, bool) {
	for i := range d.Trees {
		if d.Trees[i].ID == id {
			return &d.Trees[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the node and its subtree.
func (n NodeSpec) Clone() NodeSpec {
	out := NodeSpec{Type: n.Type, Name: n.Name}
	if n.Ports != nil {
		out.Ports = make(map[string]string, len(n.Ports))
		for k, v := range n.Ports {
			out.Ports[k] = v
		}
	}
	if n.Children != nil {
		out.Children = make([]NodeSpec, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a copy of the tree. Blackboard values are copied shallowly.
func (t TreeSpec) Clone() TreeSpec {
	out := TreeSpec{ID: t.ID, Root: t.Root.Clone()}
	if t.Blackboard != nil {
		out.Blackboard = make(map[string]any, len(t.Blackboard))
		for k, v := range t.Blackboard {
			out.Blackboard[k] = v
		}
	}
	return out
}

// Clone returns a copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Main: d.Main}
	if d.Trees != nil {
		out.Trees = make([]TreeSpec, len(d.Trees))
		for i, t := range d.Trees {
			out.Trees[i] = t.Clone()
		}
	}
	return out
}
