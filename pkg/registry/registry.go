package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// BuildContext is everything a Builder receives to create one node.
type BuildContext struct {
	Name      string
	Config    bt.NodeConfig
	Resources *Resources
	Logger    *slog.Logger
}

// Builder creates a node. Hardware handles and other shared objects come from
// the Resources bag instead of being captured by the closure.
type Builder func(BuildContext) (bt.Node, error)

// Manifest describes a node type.
type Manifest struct {
	Type        string
	Kind        bt.Kind
	Description string
	Ports       []domain.PortSpec
	Builder     Builder
}

// Registry maps node type names to manifests.
type Registry struct {
	mu        sync.RWMutex
	manifests map[string]Manifest
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		manifests: make(map[string]Manifest),
	}
}

// New creates a registry with every built-in control, decorator and leaf.
func New() *Registry {
	r := NewRegistry()
	for _, m := range Builtins() {
		r.MustRegister(m)
	}
	return r
}

// Register adds a node type to the registry.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(m Manifest) error {
	if m.Type == "" {
		return fmt.Errorf("manifest type is empty")
	}
	if m.Type == domain.SubTreeType {
		return fmt.Errorf("%q is reserved", m.Type)
	}
	if m.Builder == nil {
		return fmt.Errorf("manifest %q has no builder", m.Type)
	}
	if m.Kind == "" {
		m.Kind = bt.KindAction
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifests[m.Type] = m
	return nil
}

// MustRegister is Register for static registrations; it panics on error.
func (r *Registry) MustRegister(m Manifest) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns the manifest registered under nodeType.
func (r *Registry) Lookup(nodeType string) (Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.manifests[nodeType]
	return m, ok
}

// Describe returns the kind and ports of nodeType.
func (r *Registry) Describe(nodeType string) (bt.Kind, []domain.PortSpec, bool) {
	m, ok := r.Lookup(nodeType)
	if !ok {
		return "", nil, false
	}
	return m.Kind, m.Ports, true
}

// Manifests returns every registered manifest sorted by type.
func (r *Registry) Manifests() []Manifest {
	r.mu.RLock()
	out := make([]Manifest, 0, len(r.manifests))
	for _, m := range r.manifests {
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Build creates one node of the given type. Port defaults are applied before the
// builder runs.
func (r *Registry) Build(nodeType string, bctx BuildContext) (bt.Node, error) {
	m, ok := r.Lookup(nodeType)
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", nodeType)
	}
	if bctx.Name == "" {
		bctx.Name = nodeType
	}
	bctx.Config.Ports = withDefaults(m.Ports, bctx.Config.Ports)

	node, err := m.Builder(bctx)
	if err != nil {
		return nil, fmt.Errorf("build %s %q: %w", nodeType, bctx.Name, err)
	}
	if node == nil {
		return nil, fmt.Errorf("build %s %q: builder returned nil", nodeType, bctx.Name)
	}

	b := bt.BaseOf(node)
	if b.Kind() != m.Kind {
		return nil, fmt.Errorf("build %s %q: builder made a %s node, manifest declares %s", nodeType, bctx.Name, b.Kind(), m.Kind)
	}
	b.SetRegistrationID(nodeType)
	return node, nil
}

func withDefaults(specs []domain.PortSpec, ports map[string]string) map[string]string {
	out := make(map[string]string, len(specs)+len(ports))
	for _, p := range specs {
		if p.Default != "" {
			out[p.Name] = p.Default
		}
	}
	for k, v := range ports {
		out[k] = v
	}
	return out
}
