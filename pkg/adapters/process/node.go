package process

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/registry"
)

// NodeType is the registry name of the process leaf.
const NodeType = "RunProcess"

const (
	PortProcess   = "process"
	PortInput     = "input"
	PortOutputKey = "output_key"
)

type outcome struct {
	res Result
	err error
}

// Node runs an allowed process off the ticking goroutine. It reports RUNNING
// while the process runs, SUCCESS on exit code 0 and FAILURE otherwise; halting
// kills the process. The process output is stored on the tick that observes
// completion, so the blackboard is only touched by the ticking goroutine.
type Node struct {
	bt.Base
	runner *Runner
	done   chan outcome
	cancel context.CancelFunc
}

func NewNode(name string, cfg bt.NodeConfig, runner *Runner) *Node {
	n := &Node{Base: bt.NewBase(name, bt.KindAction, cfg), runner: runner}
	n.SetRegistrationID(NodeType)
	return n
}

func (n *Node) Tick(ctx context.Context) (domain.Status, error) {
	if n.done == nil {
		return n.start(ctx)
	}

	select {
	case o := <-n.done:
		n.cancel()
		n.done, n.cancel = nil, nil
		return n.finish(o)
	default:
		return domain.StatusRunning, nil
	}
}

func (n *Node) start(ctx context.Context) (domain.Status, error) {
	name, err := bt.GetInput[string](n, PortProcess)
	if err != nil {
		return domain.StatusIdle, err
	}
	env := map[string]string{}
	input, err := bt.GetInput[any](n, PortInput)
	switch {
	case err == nil:
		env["INPUT"] = encodeInput(input)
	case !errors.Is(err, domain.ErrPortNotFound):
		return domain.StatusIdle, err
	}

	workerCtx, cancel := context.WithCancel(ctx)
	done := make(chan outcome, 1)
	n.done, n.cancel = done, cancel
	go func() {
		res, err := n.runner.Execute(workerCtx, name, env)
		done <- outcome{res: res, err: err}
	}()
	return domain.StatusRunning, nil
}

func (n *Node) finish(o outcome) (domain.Status, error) {
	if o.err != nil {
		return domain.StatusIdle, domain.NewRuntimeError(n.Name(), o.err)
	}
	if _, ok := n.Config().Raw(PortOutputKey); ok {
		if err := bt.SetOutput(n, PortOutputKey, o.res.Output); err != nil {
			return domain.StatusIdle, err
		}
	}
	if o.res.ExitCode != 0 {
		return domain.StatusFailure, nil
	}
	return domain.StatusSuccess, nil
}

func (n *Node) Halt() {
	if n.cancel != nil {
		n.cancel()
	}
	n.done, n.cancel = nil, nil
}

// Manifest registers the process leaf backed by runner. A literal process name
// is checked against the allow-list when the tree is built.
func Manifest(runner *Runner) registry.Manifest {
	return registry.Manifest{
		Type:        NodeType,
		Kind:        bt.KindAction,
		Description: "Runs an allowed external process; SUCCESS on exit code 0.",
		Ports: []domain.PortSpec{
			{Name: PortProcess, Required: true, Description: "name of an allowed process"},
			{Name: PortInput, Description: "value passed as $ARBOR_INPUT (JSON for structured values)"},
			{Name: PortOutputKey, Description: "{key} receiving stdout (decoded when JSON)"},
		},
		Builder: func(b registry.BuildContext) (bt.Node, error) {
			if name, ok := b.Config.Raw(PortProcess); ok {
				if _, isRef := blackboard.ParseReference(name); !isRef && !runner.Has(name) {
					return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
				}
			}
			return NewNode(b.Name, b.Config, runner), nil
		},
	}
}
