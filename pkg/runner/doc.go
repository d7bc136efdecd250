/*
Package runner implements the driver loop of a behavior tree.

The runner ticks the root of a bt.Tree at a fixed period until the tree
completes, the context is canceled, Stop is called or a tick limit is reached.
It is the only place that decides what to do with errors: any error halts the
whole tree and is returned to the caller.

# Key Components

  - Runner: The tick loop, with an optional re-arm policy and cross-process lock.
  - Snapshot: A copy of node statuses and blackboard, safe to read from other
    goroutines (e.g. an HTTP monitor) while the tree runs.
  - SignalManager: Turns SIGINT/SIGTERM into context cancellation.

# Usage

	signals := runner.NewSignalManager()
	defer signals.Stop()

	r := runner.New(
		runner.WithPeriod(10*time.Millisecond),
		runner.WithLogger(logger),
	)
	res, err := r.Run(signals.Context(), tree)
*/
package runner
