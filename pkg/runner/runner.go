package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/google/uuid"
)

// Policy decides what the runner does when the root completes.
type Policy int

const (
	// PolicyStop ends the run on the first SUCCESS or FAILURE.
	PolicyStop Policy = iota
	// PolicyRearm halts the tree and starts it over.
	PolicyRearm
)

func (p Policy) String() string {
	if p == PolicyRearm {
		return "rearm"
	}
	return "stop"
}

// ParsePolicy parses "stop" or "rearm".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "stop":
		return PolicyStop, nil
	case "rearm":
		return PolicyRearm, nil
	}
	return PolicyStop, fmt.Errorf("unknown policy %q", s)
}

// Reason tells why a run ended.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonMaxTicks  Reason = "max_ticks"
	ReasonStopped   Reason = "stopped"
	ReasonCanceled  Reason = "canceled"
	ReasonError     Reason = "error"
)

// Result summarizes a finished run.
type Result struct {
	RunID  string
	Status domain.Status // last root status
	Ticks  uint64
	Runs   int
	Reason Reason
}

// Runner drives a tree. Configure it with options before calling Run; a Runner
// drives one tree at a time.
type Runner struct {
	// Logger is used for run lifecycle logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Period   time.Duration
	MaxTicks uint64
	Policy   Policy
	MaxRuns  int
	Locker   ports.Locker
	LockTTL  time.Duration
	RunID    string

	mu       sync.RWMutex
	snapshot Snapshot

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		Period:  DefaultPeriod,
		LockTTL: DefaultLockTTL,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Period <= 0 {
		r.Period = DefaultPeriod
	}
	return r
}

// Stop asks the run to end after the current tick. It is safe to call from any
// goroutine, any number of times.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Run ticks tree until it completes (PolicyStop), the tick or run limit is
// reached, Stop is called or ctx is canceled. Every exit path other than
// completion halts the tree. A tick error is returned wrapped with the tick
// number; cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context, tree *bt.Tree) (Result, error) {
	res := Result{RunID: r.RunID, Runs: 1}
	logger := r.Logger.With("run_id", r.RunID, "tree", tree.ID())

	if r.Locker != nil {
		unlock, err := r.Locker.Lock(ctx, tree.ID(), r.LockTTL)
		if err != nil {
			return res, fmt.Errorf("failed to lock tree %q: %w", tree.ID(), err)
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				logger.Warn("Failed to release tree lock", "error", err)
			}
		}()
	}

	logger.Info("Run started", "period", r.Period, "policy", r.Policy)
	r.publish(tree, res, true, nil)

	ticker := time.NewTicker(r.Period)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return r.finish(logger, tree, res, ReasonCanceled, err)
		}

		status, err := tree.Tick(ctx)
		res.Ticks++
		if err != nil {
			if domain.IsFatal(err) {
				logger.Error("Logic error, aborting", "tick", res.Ticks, "error", err)
			} else {
				logger.Error("Runtime error, halting tree", "tick", res.Ticks, "error", err)
			}
			return r.finish(logger, tree, res, ReasonError, fmt.Errorf("tick %d: %w", res.Ticks, err))
		}
		res.Status = status
		r.publish(tree, res, true, nil)

		if status.IsCompleted() {
			if r.Policy != PolicyRearm || (r.MaxRuns > 0 && res.Runs >= r.MaxRuns) {
				res.Reason = ReasonCompleted
				r.publish(tree, res, false, nil)
				logger.Info("Run completed", "status", status, "ticks", res.Ticks, "runs", res.Runs)
				return res, nil
			}
			logger.Info("Tree completed, re-arming", "status", status, "run", res.Runs)
			tree.Halt()
			res.Runs++
		}

		if r.MaxTicks > 0 && res.Ticks >= r.MaxTicks {
			return r.finish(logger, tree, res, ReasonMaxTicks, nil)
		}

		select {
		case <-ctx.Done():
			return r.finish(logger, tree, res, ReasonCanceled, ctx.Err())
		case <-r.stop:
			return r.finish(logger, tree, res, ReasonStopped, nil)
		case <-ticker.C:
		}
	}
}

func (r *Runner) finish(logger *slog.Logger, tree *bt.Tree, res Result, reason Reason, err error) (Result, error) {
	tree.Halt()
	res.Reason = reason
	r.publish(tree, res, false, err)
	if err != nil && !errors.Is(err, context.Canceled) {
		return res, err
	}
	logger.Info("Run ended", "reason", reason, "ticks", res.Ticks)
	return res, err
}
