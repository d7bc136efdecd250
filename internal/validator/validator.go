package validator

import (
	"fmt"
	"sort"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// Catalog describes the node types a tree may use.
type Catalog interface {
	Describe(nodeType string) (kind bt.Kind, ports []domain.PortSpec, ok bool)
}

// ValidateDocument checks every tree of doc and the SubTree references between them.
func ValidateDocument(doc *domain.Document, cat Catalog) error {
	v := &walker{cat: cat, doc: doc}
	if len(doc.Trees) == 0 {
		v.fail("", "document has no trees")
	}
	if _, ok := doc.MainTree(); !ok && len(doc.Trees) > 0 {
		v.fail("", fmt.Sprintf("main tree %q not found", doc.Main))
	}

	seen := make(map[string]bool)
	for i := range doc.Trees {
		tree := &doc.Trees[i]
		if tree.ID != "" && seen[tree.ID] {
			v.fail(tree.ID, "duplicate tree id")
		}
		seen[tree.ID] = true
		v.tree(tree)
	}
	if cycle := subtreeCycle(doc); cycle != "" {
		v.fail(cycle, "SubTree references form a cycle")
	}
	return v.result()
}

// ValidateTree checks a single tree on its own; SubTree nodes are reported
// because there is no document to resolve them against.
func ValidateTree(tree *domain.TreeSpec, cat Catalog) error {
	v := &walker{cat: cat}
	v.tree(tree)
	return v.result()
}

type walker struct {
	cat  Catalog
	doc  *domain.Document
	errs []error
}

func (v *walker) fail(path, reason string) {
	v.errs = append(v.errs, &ValidationError{Path: path, Reason: reason})
}

func (v *walker) result() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: v.errs}
}

func (v *walker) tree(tree *domain.TreeSpec) {
	id := tree.ID
	if id == "" {
		id = "tree"
	}
	v.node(tree.Root, fmt.Sprintf("%s/%s", id, label(tree.Root)))
}

func (v *walker) node(n domain.NodeSpec, path string) {
	defer func() {
		for i, child := range n.Children {
			v.node(child, fmt.Sprintf("%s/%d:%s", path, i, label(child)))
		}
	}()

	if n.Type == "" {
		v.fail(path, "node type is empty")
		return
	}
	if n.Type == domain.SubTreeType {
		v.subtree(n, path)
		return
	}

	kind, ports, ok := v.cat.Describe(n.Type)
	if !ok {
		v.fail(path, fmt.Sprintf("unknown node type %q", n.Type))
		return
	}

	switch kind {
	case bt.KindControl:
		if len(n.Children) == 0 {
			v.fail(path, "control node needs at least one child")
		}
	case bt.KindDecorator:
		if len(n.Children) != 1 {
			v.fail(path, fmt.Sprintf("decorator needs exactly one child, has %d", len(n.Children)))
		}
	default:
		if len(n.Children) > 0 {
			v.fail(path, "leaf node cannot have children")
		}
	}

	declared := make(map[string]domain.PortSpec, len(ports))
	for _, p := range ports {
		declared[p.Name] = p
		if _, set := n.Ports[p.Name]; p.Required && p.Default == "" && !set {
			v.fail(path, fmt.Sprintf("missing required port %q", p.Name))
		}
	}
	for _, name := range sortedKeys(n.Ports) {
		if _, ok := declared[name]; !ok {
			v.fail(path, fmt.Sprintf("unknown port %q", name))
		}
	}
}

func (v *walker) subtree(n domain.NodeSpec, path string) {
	if len(n.Children) > 0 {
		v.fail(path, "SubTree cannot have children")
	}
	id, ok := n.Ports["id"]
	if !ok || id == "" {
		v.fail(path, `SubTree needs an "id" port`)
		return
	}
	if v.doc == nil {
		v.fail(path, "SubTree can only be used inside a document")
		return
	}
	if _, ok := v.doc.Tree(id); !ok {
		v.fail(path, fmt.Sprintf("SubTree references unknown tree %q", id))
	}
}

// subtreeCycle returns the ID of a tree that (transitively) includes itself.
func subtreeCycle(doc *domain.Document) string {
	refs := make(map[string][]string)
	for _, tree := range doc.Trees {
		tree.Root.Walk(func(n domain.NodeSpec, _ int) {
			if n.Type == domain.SubTreeType && n.Ports["id"] != "" {
				refs[tree.ID] = append(refs[tree.ID], n.Ports["id"])
			}
		})
	}

	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case active:
			return true
		case done:
			return false
		}
		state[id] = active
		for _, next := range refs[id] {
			if visit(next) {
				return true
			}
		}
		state[id] = done
		return false
	}
	for _, tree := range doc.Trees {
		if visit(tree.ID) {
			return tree.ID
		}
	}
	return ""
}

func label(n domain.NodeSpec) string {
	if n.Name == "" || n.Name == n.Type {
		return n.Type
	}
	return fmt.Sprintf("%s[%s]", n.Type, n.Name)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
