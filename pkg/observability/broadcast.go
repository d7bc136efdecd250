package observability

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/domain"
)

// Broadcaster is an EventSink fanning transitions out to live subscribers, such
// as the monitor's event stream. A subscriber that falls behind loses events
// instead of slowing the tick.
type Broadcaster struct {
	buffer  int
	mu      sync.Mutex
	subs    map[chan domain.TransitionEvent]struct{}
	dropped atomic.Uint64
}

// NewBroadcaster creates a Broadcaster whose subscribers buffer up to buffer events.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = 64
	}
	return &Broadcaster{buffer: buffer, subs: make(map[chan domain.TransitionEvent]struct{})}
}

// Publish copies e to every subscriber without blocking.
func (b *Broadcaster) Publish(_ context.Context, e *domain.TransitionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- *e:
		default:
			b.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe returns a channel of transitions that is closed when ctx ends.
func (b *Broadcaster) Subscribe(ctx context.Context) <-chan domain.TransitionEvent {
	ch := make(chan domain.TransitionEvent, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}
