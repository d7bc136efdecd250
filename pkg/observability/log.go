package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// NewLogHooks logs every transition at debug level, completed ticks at debug
// level and failed ticks at error level.
func NewLogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStatusChange: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "Node status changed",
				"tree", e.TreeID,
				"uid", e.NodeUID,
				"node", e.NodeName,
				"type", e.NodeType,
				"from", e.Previous,
				"to", e.Current,
			)
		},
		OnTick: func(ctx context.Context, e *domain.TickEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "Tick failed",
					"tree", e.TreeID,
					"tick", e.Tick,
					"error", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "Tick completed",
				"tree", e.TreeID,
				"tick", e.Tick,
				"status", e.Status,
				"duration", e.Duration,
			)
		},
	}
}
