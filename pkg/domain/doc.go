/*
Package domain contains the core domain models of the arbor behavior-tree engine.

It defines the status state machine, the fatal/recoverable error taxonomy, the
observability events and the declarative tree description. This package is kept
pure and free of external dependencies like I/O or persistence.

# Key Entities

  - Status: IDLE, RUNNING, SUCCESS or FAILURE. Only IDLE may never be returned by a tick.
  - LogicError / RuntimeError: the two error channels that unwind through a tick.
  - TransitionEvent / TickEvent: what passive observers receive.
  - TreeSpec / NodeSpec / Document: the in-memory form of a tree file.
*/
package domain
