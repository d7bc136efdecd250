package domain

import (
	"fmt"
	"strings"
)

// Status is the result of ticking a node.
type Status int

const (
	// StatusIdle is only legal before the first tick and right after a halt.
	// A node must never return it from Tick.
	StatusIdle Status = iota
	StatusRunning
	StatusSuccess
	StatusFailure
)

// String returns the upper-case name used in logs and tree files.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusRunning:
		return "RUNNING"
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailure:
		return "FAILURE"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsCompleted reports whether the status is terminal (SUCCESS or FAILURE).
func (s Status) IsCompleted() bool {
	return s == StatusSuccess || s == StatusFailure
}

// ParseStatus converts a case-insensitive status name.
func ParseStatus(str string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "IDLE":
		return StatusIdle, nil
	case "RUNNING":
		return StatusRunning, nil
	case "SUCCESS":
		return StatusSuccess, nil
	case "FAILURE":
		return StatusFailure, nil
	}
	return StatusIdle, fmt.Errorf("unknown status: %q", str)
}

// MarshalText implements encoding.TextMarshaler (used by JSON, YAML and slog).
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
