package observability

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Compose returns hooks that call each of hooks in order.
func Compose(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var changes []func(context.Context, *domain.TransitionEvent)
	var ticks []func(context.Context, *domain.TickEvent)
	for _, h := range hooks {
		if h.OnStatusChange != nil {
			changes = append(changes, h.OnStatusChange)
		}
		if h.OnTick != nil {
			ticks = append(ticks, h.OnTick)
		}
	}

	var out domain.LifecycleHooks
	if len(changes) > 0 {
		out.OnStatusChange = func(ctx context.Context, e *domain.TransitionEvent) {
			for _, fn := range changes {
				fn(ctx, e)
			}
		}
	}
	if len(ticks) > 0 {
		out.OnTick = func(ctx context.Context, e *domain.TickEvent) {
			for _, fn := range ticks {
				fn(ctx, e)
			}
		}
	}
	return out
}
