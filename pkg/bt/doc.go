/*
Package bt is the behavior-tree execution engine.

A Tree owns a root Node and every descendant. The caller ticks the root once per
scheduling period; control nodes tick their children according to their policy
and the result flows back up as a domain.Status.

# Contract

  - Tick returns RUNNING, SUCCESS or FAILURE. Returning IDLE is a LogicError.
  - Halt is idempotent, never blocks and resets private cursors, so the next tick
    starts over as if the node had just been built.
  - Errors (domain.LogicError, domain.RuntimeError) unwind through every control node
    untouched. Domain failure is the FAILURE status, never an error.
  - Suspension is expressed only by returning RUNNING; nothing blocks the ticking
    goroutine.

# Policies

  - Sequence: restarts from the first child on every tick.
  - SequenceStar: remembers its cursor across ticks, including after a FAILURE.
  - Fallback: Sequence with SUCCESS and FAILURE swapped.
  - Parallel: ticks every pending child each round, aggregates with thresholds.
  - Decorators: Inverter, ForceSuccess, ForceFailure, Retry, Repeat.
*/
package bt
