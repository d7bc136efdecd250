package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// SinkHooks forwards every transition to sink. Publishing errors are logged and
// never interrupt the tick.
func SinkHooks(sink ports.EventSink, logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(ctx context.Context, e *domain.TransitionEvent) {
			if err := sink.Publish(ctx, e); err != nil {
				logger.WarnContext(ctx, "Failed to publish transition", "node", e.NodeName, "error", err)
			}
		},
	}
}
