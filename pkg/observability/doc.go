/*
Package observability provides passive subscribers for tree execution.

Every type here plugs into domain.LifecycleHooks: it sees status transitions
and completed ticks but never influences them.

  - Compose merges several hook sets.
  - NewLogHooks logs transitions with log/slog.
  - Metrics exports Prometheus counters and a tick duration histogram.
  - Recorder keeps a bounded trace that can be written as JSON or in the Chrome
    trace event format.
  - SinkHooks forwards transitions to a ports.EventSink.
*/
package observability
