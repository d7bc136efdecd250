package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/internal/validator"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/aretw0/arbor/pkg/runner"
)

// Engine is the high-level entry point for the arbor library.
// It bundles a node registry, the resources handed to node builders and the
// observers attached to every tree it builds.
type Engine struct {
	registry  *registry.Registry
	resources *registry.Resources
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks on every tree built by the engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry replaces the default registry (built-in nodes only).
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithResources sets the shared objects (hardware handles, clients) that node
// builders look up by key.
func WithResources(res *registry.Resources) Option {
	return func(e *Engine) {
		e.resources = res
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.registry == nil {
		eng.registry = registry.New()
	}
	if eng.resources == nil {
		eng.resources = registry.NewResources()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return eng
}

// Registry returns the node registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Resources returns the resource bag handed to builders.
func (e *Engine) Resources() *registry.Resources { return e.resources }

// Register adds a node type.
func (e *Engine) Register(m registry.Manifest) error {
	return e.registry.Register(m)
}

// Validate checks doc against the registry without building anything.
func (e *Engine) Validate(doc *domain.Document) error {
	return validator.ValidateDocument(doc, e.registry)
}

// Build validates doc and builds its main tree.
func (e *Engine) Build(doc *domain.Document) (*bt.Tree, error) {
	tree, err := e.factory().CreateDocument(doc, bt.WithLifecycleHooks(e.hooks))
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Tree built", "tree", tree.ID(), "nodes", tree.Size())
	return tree, nil
}

// BuildTree validates and builds a single tree description.
func (e *Engine) BuildTree(spec *domain.TreeSpec) (*bt.Tree, error) {
	return e.factory().CreateTree(spec, bt.WithLifecycleHooks(e.hooks))
}

// Load fetches a document from loader and builds its main tree.
func (e *Engine) Load(ctx context.Context, loader ports.TreeLoader) (*bt.Tree, error) {
	doc, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trees: %w", err)
	}
	return e.Build(doc)
}

// NewRunner creates a runner that logs through the engine's logger unless opts
// say otherwise.
func (e *Engine) NewRunner(opts ...runner.Option) *runner.Runner {
	return runner.New(append([]runner.Option{runner.WithLogger(e.logger)}, opts...)...)
}

// Run drives tree to completion with a fresh runner.
func (e *Engine) Run(ctx context.Context, tree *bt.Tree, opts ...runner.Option) (runner.Result, error) {
	return e.NewRunner(opts...).Run(ctx, tree)
}

func (e *Engine) factory() *registry.Factory {
	return registry.NewFactory(e.registry,
		registry.WithResources(e.resources),
		registry.WithLogger(e.logger),
	)
}
