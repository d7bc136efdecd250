// Package nodes provides leaves that need no hardware: constant results,
// blackboard manipulation, tick and time based waits and logging.
//
// They are registered by default in registry.New and are enough to simulate a
// tree end to end from a tree file.
package nodes
