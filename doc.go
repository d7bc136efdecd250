/*
Package arbor is a behavior-tree execution engine for robots and software agents.

A behavior tree is ticked from its root at a fixed period. Every node answers a
tick with RUNNING, SUCCESS or FAILURE; control nodes (Sequence, SequenceStar,
Fallback, Parallel) decide which children to tick and how to combine their
answers, and decorators reshape the answer of a single child. Work that spans
several ticks reports RUNNING and is interrupted with a halt, which resets a
node so the next tick starts it afresh.

# Usage

Trees are described declaratively (YAML, JSON or HCL files, or the fluent
builder in pkg/dsl) and built from a registry of node types. Leaves specific to
your robot are registered with a builder function that receives its ports and a
bag of shared resources:

	eng := arbor.New(arbor.WithLogger(logger))
	eng.Register(registry.Manifest{
		Type: "MoveArm",
		Ports: []domain.PortSpec{{Name: "angle", Required: true}},
		Builder: func(b registry.BuildContext) (bt.Node, error) {
			arm, err := registry.Resource[*Arm](b, "arm")
			if err != nil {
				return nil, err
			}
			return bt.NewStatefulAction(b.Name, b.Config, arm.Start, arm.Poll, arm.Stop), nil
		},
	})

	loader, _ := file.NewLoader("patrol.yaml")
	tree, err := eng.Load(ctx, loader)
	if err != nil {
		log.Fatal(err)
	}
	defer tree.Close()

	res, err := eng.Run(ctx, tree, runner.WithPeriod(50*time.Millisecond))

# Packages

  - pkg/bt: node contract, control nodes, decorators, leaf helpers and Tree.
  - pkg/blackboard: key/value store shared by the nodes of a tree.
  - pkg/registry: node registry, builders and the factory that builds trees.
  - pkg/runner: the tick loop, with stop and re-arm policies.
  - pkg/observability: logging, Prometheus metrics and trace recording hooks.
  - pkg/adapters: tree loaders (file, memory), Redis event stream and locks.
*/
package arbor
