package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// TickFunc implements the behavior of a function-backed leaf. self gives access to
// the node's ports through GetInput and SetOutput.
type TickFunc func(ctx context.Context, self Node) (domain.Status, error)

// Action is a leaf whose tick is a plain function. Its Halt is a no-op, so the
// function should complete synchronously; use StatefulAction or AsyncAction for
// long-running work.
type Action struct {
	Base
	fn TickFunc
}

// NewAction creates a function-backed action.
func NewAction(name string, cfg NodeConfig, fn TickFunc) *Action {
	return &Action{Base: NewBase(name, KindAction, cfg), fn: fn}
}

func (a *Action) Tick(ctx context.Context) (domain.Status, error) {
	return a.fn(ctx, a)
}

func (a *Action) Halt() {}

// ConditionFunc checks something and answers true (SUCCESS) or false (FAILURE).
type ConditionFunc func(ctx context.Context, self Node) (bool, error)

// Condition is a leaf that never returns RUNNING.
type Condition struct {
	Base
	fn ConditionFunc
}

// NewCondition creates a function-backed condition.
func NewCondition(name string, cfg NodeConfig, fn ConditionFunc) *Condition {
	return &Condition{Base: NewBase(name, KindCondition, cfg), fn: fn}
}

func (c *Condition) Tick(ctx context.Context) (domain.Status, error) {
	ok, err := c.fn(ctx, c)
	if err != nil {
		return domain.StatusIdle, err
	}
	if ok {
		return domain.StatusSuccess, nil
	}
	return domain.StatusFailure, nil
}

func (c *Condition) Halt() {}

// StatefulAction splits a long-running action into start, poll and cancel steps:
// OnStart runs when the node is ticked from a non-RUNNING state, OnRunning on the
// following ticks, OnHalted when the node is halted while RUNNING.
type StatefulAction struct {
	Base
	OnStart   TickFunc
	OnRunning TickFunc
	OnHalted  func(self Node)
}

// NewStatefulAction creates a StatefulAction. onHalted may be nil.
func NewStatefulAction(name string, cfg NodeConfig, onStart, onRunning TickFunc, onHalted func(Node)) *StatefulAction {
	return &StatefulAction{
		Base:      NewBase(name, KindAction, cfg),
		OnStart:   onStart,
		OnRunning: onRunning,
		OnHalted:  onHalted,
	}
}

func (a *StatefulAction) Tick(ctx context.Context) (domain.Status, error) {
	if a.status == domain.StatusRunning {
		return a.OnRunning(ctx, a)
	}
	return a.OnStart(ctx, a)
}

func (a *StatefulAction) Halt() {
	if a.status == domain.StatusRunning && a.OnHalted != nil {
		a.OnHalted(a)
	}
}

type asyncResult struct {
	status domain.Status
	err    error
}

// WorkFunc is the blocking part of an AsyncAction. It runs on a worker goroutine
// and must not touch the blackboard or the node.
type WorkFunc func(ctx context.Context) (domain.Status, error)

// StartFunc runs on the ticking goroutine, reads whatever inputs the work needs and
// returns the work to run in the background.
type StartFunc func(ctx context.Context, self Node) (WorkFunc, error)

// AsyncAction runs blocking work on a worker goroutine and reports RUNNING until it
// returns. Halting cancels the worker's context without waiting for it. The worker
// context derives from the context of the tick that started it.
type AsyncAction struct {
	Base
	start  StartFunc
	done   chan asyncResult
	cancel context.CancelFunc
}

// NewAsyncAction creates an AsyncAction. The work returned by start must honor
// context cancellation.
func NewAsyncAction(name string, cfg NodeConfig, start StartFunc) *AsyncAction {
	return &AsyncAction{Base: NewBase(name, KindAction, cfg), start: start}
}

func (a *AsyncAction) Tick(ctx context.Context) (domain.Status, error) {
	if a.done == nil {
		work, err := a.start(ctx, a)
		if err != nil {
			return domain.StatusIdle, err
		}
		workerCtx, cancel := context.WithCancel(ctx)
		done := make(chan asyncResult, 1)
		a.done, a.cancel = done, cancel
		go func() {
			status, err := work(workerCtx)
			done <- asyncResult{status: status, err: err}
		}()
		return domain.StatusRunning, nil
	}

	select {
	case res := <-a.done:
		a.cancel()
		a.done, a.cancel = nil, nil
		return res.status, res.err
	default:
		return domain.StatusRunning, nil
	}
}

func (a *AsyncAction) Halt() {
	if a.cancel != nil {
		a.cancel()
	}
	a.done, a.cancel = nil, nil
}
