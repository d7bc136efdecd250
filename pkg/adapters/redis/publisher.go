package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Publisher implements ports.EventSink by appending transitions to a Redis stream.
type Publisher struct {
	client backend.UniversalClient
	stream string
	maxLen int64
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithMaxLen caps the stream length (approximately, as XADD MAXLEN ~ does).
// Zero keeps every entry.
func WithMaxLen(n int64) PublisherOption {
	return func(p *Publisher) {
		p.maxLen = n
	}
}

// NewPublisher creates a publisher writing to stream.
func NewPublisher(client backend.UniversalClient, stream string, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		client: client,
		stream: stream,
		maxLen: 10000,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish appends one transition to the stream.
func (p *Publisher) Publish(ctx context.Context, e *domain.TransitionEvent) error {
	args := &backend.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"tree":     e.TreeID,
			"uid":      strconv.Itoa(e.NodeUID),
			"node":     e.NodeName,
			"type":     e.NodeType,
			"previous": e.Previous.String(),
			"current":  e.Current.String(),
			"ts":       e.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish transition: %w", err)
	}
	return nil
}
