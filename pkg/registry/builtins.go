package registry

import (
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/nodes"
)

func port(name, description string) domain.PortSpec {
	return domain.PortSpec{Name: name, Required: true, Description: description}
}

func optional(name, def, description string) domain.PortSpec {
	return domain.PortSpec{Name: name, Default: def, Description: description}
}

func configured(n bt.Node, cfg bt.NodeConfig) (bt.Node, error) {
	if err := bt.BaseOf(n).Configure(cfg); err != nil {
		return nil, err
	}
	return n, nil
}

// Builtins returns the manifests of every node type shipped with arbor.
func Builtins() []Manifest {
	return []Manifest{
		{
			Type:        "Sequence",
			Kind:        bt.KindControl,
			Description: "Ticks children in order, restarting from the first on every tick.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(bt.NewSequence(b.Name), b.Config)
			},
		},
		{
			Type:        "SequenceStar",
			Kind:        bt.KindControl,
			Description: "Sequence that resumes at the child that returned RUNNING or FAILURE.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(bt.NewSequenceStar(b.Name), b.Config)
			},
		},
		{
			Type:        "Fallback",
			Kind:        bt.KindControl,
			Description: "Ticks children in order until one does not fail.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(bt.NewFallback(b.Name), b.Config)
			},
		},
		{
			Type:        "Parallel",
			Kind:        bt.KindControl,
			Description: "Ticks every pending child each round; completes on a success or failure threshold.",
			Ports: []domain.PortSpec{
				optional("success_threshold", "-1", "successes needed; negative counts from the number of children"),
				optional("failure_threshold", "1", "failures needed; negative counts from the number of children"),
			},
			Builder: func(b BuildContext) (bt.Node, error) {
				success, err := bt.ReadPort[int](b.Config, "success_threshold")
				if err != nil {
					return nil, err
				}
				failure, err := bt.ReadPort[int](b.Config, "failure_threshold")
				if err != nil {
					return nil, err
				}
				return configured(bt.NewParallel(b.Name, success, failure), b.Config)
			},
		},
		{
			Type:        "Inverter",
			Kind:        bt.KindDecorator,
			Description: "Swaps SUCCESS and FAILURE.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(bt.NewInverter(b.Name, nil), b.Config)
			},
		},
		{
			Type:        "ForceSuccess",
			Kind:        bt.KindDecorator,
			Description: "Reports SUCCESS whenever the child completes.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(bt.NewForceSuccess(b.Name, nil), b.Config)
			},
		},
		{
			Type:        "ForceFailure",
			Kind:        bt.KindDecorator,
			Description: "Reports FAILURE whenever the child completes.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(bt.NewForceFailure(b.Name, nil), b.Config)
			},
		},
		{
			Type:        "Retry",
			Kind:        bt.KindDecorator,
			Description: "Re-runs a failing child on the next tick, up to num_attempts times (-1 forever).",
			Ports:       []domain.PortSpec{port("num_attempts", "number of attempts")},
			Builder: func(b BuildContext) (bt.Node, error) {
				attempts, err := bt.ReadPort[int](b.Config, "num_attempts")
				if err != nil {
					return nil, err
				}
				return configured(bt.NewRetry(b.Name, attempts, nil), b.Config)
			},
		},
		{
			Type:        "Repeat",
			Kind:        bt.KindDecorator,
			Description: "Re-runs a succeeding child on the next tick, num_cycles times (-1 forever).",
			Ports:       []domain.PortSpec{port("num_cycles", "number of cycles")},
			Builder: func(b BuildContext) (bt.Node, error) {
				cycles, err := bt.ReadPort[int](b.Config, "num_cycles")
				if err != nil {
					return nil, err
				}
				return configured(bt.NewRepeat(b.Name, cycles, nil), b.Config)
			},
		},
		{
			Type:        "AlwaysSuccess",
			Kind:        bt.KindAction,
			Description: "Returns SUCCESS.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(nodes.NewAlwaysSuccess(b.Name), b.Config)
			},
		},
		{
			Type:        "AlwaysFailure",
			Kind:        bt.KindAction,
			Description: "Returns FAILURE.",
			Builder: func(b BuildContext) (bt.Node, error) {
				return configured(nodes.NewAlwaysFailure(b.Name), b.Config)
			},
		},
		{
			Type:        "SetBlackboard",
			Kind:        bt.KindAction,
			Description: "Writes value into the blackboard entry output_key.",
			Ports: []domain.PortSpec{
				port(nodes.PortValue, "literal or {key} reference"),
				port(nodes.PortOutputKey, "destination entry"),
			},
			Builder: func(b BuildContext) (bt.Node, error) {
				return nodes.NewSetBlackboard(b.Name, b.Config), nil
			},
		},
		{
			Type:        "CheckBlackboard",
			Kind:        bt.KindCondition,
			Description: "Succeeds when the entry key prints as expected.",
			Ports: []domain.PortSpec{
				port(nodes.PortKey, "entry to compare"),
				port(nodes.PortExpected, "expected value"),
			},
			Builder: func(b BuildContext) (bt.Node, error) {
				return nodes.NewCheckBlackboard(b.Name, b.Config), nil
			},
		},
		{
			Type:        "WaitTicks",
			Kind:        bt.KindAction,
			Description: "Returns RUNNING for num_ticks ticks, then SUCCESS.",
			Ports:       []domain.PortSpec{optional(nodes.PortNumTicks, "1", "ticks to wait")},
			Builder: func(b BuildContext) (bt.Node, error) {
				return nodes.NewWaitTicks(b.Name, b.Config), nil
			},
		},
		{
			Type:        "Sleep",
			Kind:        bt.KindAction,
			Description: "Returns RUNNING until msec milliseconds have passed.",
			Ports:       []domain.PortSpec{port(nodes.PortMsec, "milliseconds")},
			Builder: func(b BuildContext) (bt.Node, error) {
				return nodes.NewSleep(b.Name, b.Config), nil
			},
		},
		{
			Type:        "Log",
			Kind:        bt.KindAction,
			Description: "Logs message and returns SUCCESS.",
			Ports:       []domain.PortSpec{port(nodes.PortMessage, "literal or {key} reference")},
			Builder: func(b BuildContext) (bt.Node, error) {
				return nodes.NewLog(b.Name, b.Config, b.Logger), nil
			},
		},
	}
}
