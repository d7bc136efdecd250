package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// EventSink receives status transitions, e.g. to feed a remote dashboard.
// Publish is called on the ticking goroutine and should return quickly.
type EventSink interface {
	Publish(ctx context.Context, event *domain.TransitionEvent) error
}
