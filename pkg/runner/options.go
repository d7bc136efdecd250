package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
)

// DefaultPeriod is the pause between two ticks.
const DefaultPeriod = 10 * time.Millisecond

// DefaultLockTTL bounds how long a crashed driver keeps a tree locked.
const DefaultLockTTL = 30 * time.Second

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithPeriod sets the pause between two ticks.
func WithPeriod(d time.Duration) Option {
	return func(r *Runner) {
		r.Period = d
	}
}

// WithMaxTicks stops the run (halting the tree) after n ticks. Zero means no limit.
func WithMaxTicks(n uint64) Option {
	return func(r *Runner) {
		r.MaxTicks = n
	}
}

// WithPolicy sets what happens when the tree completes. maxRuns bounds the
// number of runs under PolicyRearm (zero means no limit).
func WithPolicy(p Policy, maxRuns int) Option {
	return func(r *Runner) {
		r.Policy = p
		r.MaxRuns = maxRuns
	}
}

// WithLocker makes the runner hold a lock named after the tree while it runs.
func WithLocker(locker ports.Locker, ttl time.Duration) Option {
	return func(r *Runner) {
		r.Locker = locker
		r.LockTTL = ttl
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.RunID = id
	}
}
