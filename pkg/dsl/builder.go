package dsl

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
)

// Builder manages the construction of a tree document.
type Builder struct {
	main  string
	trees map[string]*TreeBuilder
	order []string
}

// New creates a new document builder.
func New() *Builder {
	return &Builder{
		trees: make(map[string]*TreeBuilder),
	}
}

// Add creates a new tree in the document.
// If the tree already exists, it returns the existing builder.
func (b *Builder) Add(id string) *TreeBuilder {
	if tb, ok := b.trees[id]; ok {
		return tb
	}
	tb := &TreeBuilder{spec: domain.TreeSpec{ID: id}}
	b.trees[id] = tb
	b.order = append(b.order, id)
	return tb
}

// Main selects the tree to run. Defaults to the first tree added.
func (b *Builder) Main(id string) *Builder {
	b.main = id
	return b
}

// Document returns the document described so far.
func (b *Builder) Document() *domain.Document {
	doc := &domain.Document{Main: b.main}
	if doc.Main == "" && len(b.order) > 0 {
		doc.Main = b.order[0]
	}
	for _, id := range b.order {
		doc.Trees = append(doc.Trees, b.trees[id].Build())
	}
	return doc
}

// Build compiles the document into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	doc := b.Document()
	if len(doc.Trees) == 0 {
		return nil, fmt.Errorf("failed to build memory loader: no trees")
	}
	if _, ok := doc.MainTree(); !ok {
		return nil, fmt.Errorf("failed to build memory loader: main tree %q not defined", doc.Main)
	}
	return memory.NewLoader(doc), nil
}

// TreeBuilder configures one tree.
type TreeBuilder struct {
	spec domain.TreeSpec
	root *NodeBuilder
}

// Root sets the root node.
func (t *TreeBuilder) Root(n *NodeBuilder) *TreeBuilder {
	t.root = n
	return t
}

// Blackboard adds an initial blackboard entry.
func (t *TreeBuilder) Blackboard(key string, value any) *TreeBuilder {
	if t.spec.Blackboard == nil {
		t.spec.Blackboard = make(map[string]any)
	}
	t.spec.Blackboard[key] = value
	return t
}

// Build returns the underlying domain.TreeSpec.
func (t *TreeBuilder) Build() domain.TreeSpec {
	out := t.spec.Clone()
	if t.root != nil {
		out.Root = t.root.Build()
	}
	return out
}
