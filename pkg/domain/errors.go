package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLogic marks a broken tree definition or a broken node implementation.
	// It is fatal: the enclosing tick chain must abort.
	ErrLogic = errors.New("behavior tree logic error")

	// ErrRuntime marks a transient failure raised by a leaf (hardware timeout, I/O fault).
	ErrRuntime = errors.New("behavior tree runtime error")

	// ErrPortNotFound is returned when a node reads a port that was not configured.
	ErrPortNotFound = errors.New("port not found")
)

// LogicError is raised when the tick contract is violated.
type LogicError struct {
	Node   string
	Reason string
}

func (e *LogicError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("logic error: %s", e.Reason)
	}
	return fmt.Sprintf("logic error in node %q: %s", e.Node, e.Reason)
}

// Is lets errors.Is(err, ErrLogic) match any LogicError.
func (e *LogicError) Is(target error) bool {
	return target == ErrLogic
}

// NewLogicError builds a LogicError with a formatted reason.
func NewLogicError(node, format string, args ...any) *LogicError {
	return &LogicError{Node: node, Reason: fmt.Sprintf(format, args...)}
}

// RuntimeError wraps a recoverable failure raised by a leaf node.
// Control nodes propagate it untouched; only the driver decides what to do.
type RuntimeError struct {
	Node  string
	Cause error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error in node %q: %v", e.Node, e.Cause)
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrRuntime) match any RuntimeError.
func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntime
}

// NewRuntimeError wraps cause as a RuntimeError raised by node.
func NewRuntimeError(node string, cause error) *RuntimeError {
	return &RuntimeError{Node: node, Cause: cause}
}

// PortError is returned when a port cannot be resolved or converted.
type PortError struct {
	Node  string
	Port  string
	Cause error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("node %q port %q: %v", e.Node, e.Port, e.Cause)
}

func (e *PortError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether err must stop the driver (a LogicError).
func IsFatal(err error) bool {
	return errors.Is(err, ErrLogic)
}
