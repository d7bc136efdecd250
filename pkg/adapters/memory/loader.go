package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Loader implements ports.TreeLoader over a document held in memory.
type Loader struct {
	doc *domain.Document
}

// NewLoader creates a Loader serving a copy of doc.
func NewLoader(doc *domain.Document) *Loader {
	return &Loader{doc: doc.Clone()}
}

// NewFromTrees creates a Loader from tree descriptions; the first one is main.
func NewFromTrees(trees ...domain.TreeSpec) (*Loader, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("no trees given")
	}
	seen := make(map[string]bool, len(trees))
	for _, t := range trees {
		if t.ID == "" {
			return nil, fmt.Errorf("tree missing ID")
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate tree ID: %s", t.ID)
		}
		seen[t.ID] = true
	}
	return NewLoader(&domain.Document{Main: trees[0].ID, Trees: trees}), nil
}

// Load returns a copy of the document.
func (l *Loader) Load(ctx context.Context) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.doc.Clone(), nil
}
