package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// TreeLoader defines how the engine retrieves tree descriptions.
type TreeLoader interface {
	// Load returns the document. Each call returns a fresh copy that the caller
	// may modify.
	Load(ctx context.Context) (*domain.Document, error)
}
