/*
Package ports defines the driven ports (interfaces) of the arbor engine.

These interfaces decouple the engine from where tree descriptions come from,
where status transitions are shipped, and how a tree is guarded against two
drivers.

# Key Interfaces

  - TreeLoader: Loads a tree document (e.g., from a file or memory).
  - EventSink: Receives status transitions for remote observers.
  - Locker: Guarantees that a single driver ticks a given tree.
*/
package ports
