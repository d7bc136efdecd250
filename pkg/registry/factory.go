package registry

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// Factory turns tree descriptions into owned trees.
type Factory struct {
	registry  *Registry
	resources *Resources
	logger    *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithResources hands shared objects to every builder.
func WithResources(res *Resources) FactoryOption {
	return func(f *Factory) {
		f.resources = res
	}
}

// WithLogger sets the logger passed to builders.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates a factory backed by reg (registry.New() when nil).
func NewFactory(reg *Registry, opts ...FactoryOption) *Factory {
	if reg == nil {
		reg = New()
	}
	f := &Factory{registry: reg}
	for _, opt := range opts {
		opt(f)
	}
	if f.resources == nil {
		f.resources = NewResources()
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f
}

// Registry returns the registry used by the factory.
func (f *Factory) Registry() *Registry { return f.registry }

// CreateTree validates spec and builds it. The blackboard is seeded from
// spec.Blackboard; opts are applied after the tree ID.
func (f *Factory) CreateTree(spec *domain.TreeSpec, opts ...bt.TreeOption) (*bt.Tree, error) {
	if err := validator.ValidateTree(spec, f.registry); err != nil {
		return nil, err
	}
	b := &build{factory: f, bb: blackboard.New()}
	return b.tree(spec, opts)
}

// CreateDocument validates doc and builds its main tree, inlining SubTree nodes.
func (f *Factory) CreateDocument(doc *domain.Document, opts ...bt.TreeOption) (*bt.Tree, error) {
	if err := validator.ValidateDocument(doc, f.registry); err != nil {
		return nil, err
	}
	main, _ := doc.MainTree()
	b := &build{factory: f, doc: doc, bb: blackboard.New()}
	return b.tree(main, opts)
}

type build struct {
	factory *Factory
	doc     *domain.Document
	bb      *blackboard.Blackboard
	stack   []string
}

func (b *build) tree(spec *domain.TreeSpec, opts []bt.TreeOption) (*bt.Tree, error) {
	b.stack = []string{spec.ID}
	root, err := b.node(spec.Root)
	if err != nil {
		return nil, err
	}
	// the tree's own entries win over those of its subtrees
	b.bb.Seed(spec.Blackboard)

	all := append([]bt.TreeOption{bt.WithID(spec.ID)}, opts...)
	return bt.NewTree(root, b.bb, all...)
}

func (b *build) node(spec domain.NodeSpec) (bt.Node, error) {
	if spec.Type == domain.SubTreeType {
		return b.subtree(spec)
	}

	node, err := b.factory.registry.Build(spec.Type, BuildContext{
		Name:      spec.DisplayName(),
		Config:    bt.NodeConfig{Ports: spec.Ports},
		Resources: b.factory.resources,
		Logger:    b.factory.logger,
	})
	if err != nil {
		return nil, err
	}

	for _, childSpec := range spec.Children {
		child, err := b.node(childSpec)
		if err != nil {
			return nil, err
		}
		if err := bt.Attach(node, child); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (b *build) subtree(spec domain.NodeSpec) (bt.Node, error) {
	id := spec.Ports["id"]
	if b.doc == nil {
		return nil, fmt.Errorf("SubTree %q used outside a document", id)
	}
	for _, active := range b.stack {
		if active == id {
			return nil, fmt.Errorf("SubTree %q includes itself", id)
		}
	}
	tree, ok := b.doc.Tree(id)
	if !ok {
		return nil, fmt.Errorf("SubTree references unknown tree %q", id)
	}

	b.stack = append(b.stack, id)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	root, err := b.node(tree.Root)
	if err != nil {
		return nil, err
	}
	b.bb.Seed(tree.Blackboard)
	return root, nil
}
