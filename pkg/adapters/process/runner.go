package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ErrNotRegistered is returned for a process name missing from the allow-list.
var ErrNotRegistered = errors.New("process not registered")

// Runner executes local processes.
// It follows a Strict Registry pattern for security (Allow-Listing): trees can
// only name processes, never command lines.
type Runner struct {
	registry map[string]ProcessConfig
	baseDir  string
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(procs map[string]ProcessConfig) RunnerOption {
	return func(r *Runner) {
		for name, p := range procs {
			p.Name = name
			r.registry[name] = p
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: make(map[string]ProcessConfig),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted script/command to the allow-list.
func (r *Runner) Register(name string, command string, args ...string) {
	r.registry[name] = ProcessConfig{Name: name, Command: command, Args: args}
}

// Has reports whether name is allowed.
func (r *Runner) Has(name string) bool {
	_, ok := r.registry[name]
	return ok
}

// Names returns the allowed process names, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Result is the outcome of a process that ran.
type Result struct {
	ExitCode int
	// Output is stdout, decoded when it holds a JSON object or array.
	Output any
	Stderr string
}

// Execute runs the registered process name with env added to its environment.
// A non-zero exit is reported in Result, not as an error; errors mean the
// process could not run at all (unknown name, missing binary, canceled ctx).
func (r *Runner) Execute(ctx context.Context, name string, env map[string]string) (Result, error) {
	proc, ok := r.registry[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	cmd := exec.CommandContext(ctx, proc.Command, proc.Args...)
	cmd.Dir = r.baseDir

	// Inputs travel as environment variables, never as flags.
	extra := make([]string, 0, len(proc.Environment)+len(env))
	for k, v := range proc.Environment {
		extra = append(extra, k+"="+v)
	}
	for k, v := range env {
		extra = append(extra, fmt.Sprintf("ARBOR_%s=%s", strings.ToUpper(k), v))
	}
	cmd.Env = append(cmd.Environ(), extra...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Output: decodeOutput(stdout.String()), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("execution of %s failed: %w", name, err)
}

// decodeOutput parses JSON objects and arrays and falls back to the trimmed text.
func decodeOutput(output string) any {
	trimmed := strings.TrimSpace(output)
	if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return v
		}
	}
	return trimmed
}

// encodeInput turns a port value into an environment value.
func encodeInput(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case int, int64, float64, bool, json.Number:
		return fmt.Sprint(v)
	}
	// Complex types: Try JSON
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprint(v)
}
