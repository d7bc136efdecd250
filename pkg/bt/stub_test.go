package bt_test

import (
	"context"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// stubNode returns scripted statuses; the last entry repeats forever.
type stubNode struct {
	bt.Base
	script []domain.Status
	pos    int
	err    error
	ticks  int
	halts  int
	trace  *[]string
	closed *[]string
}

func newStub(name string, script ...domain.Status) *stubNode {
	s := &stubNode{script: script}
	s.Base = bt.NewBase(name, bt.KindAction, bt.NodeConfig{})
	return s
}

func (s *stubNode) withTrace(trace *[]string) *stubNode {
	s.trace = trace
	return s
}

// set replaces the script with a single status.
func (s *stubNode) set(status domain.Status) {
	s.script = []domain.Status{status}
	s.pos = 0
}

func (s *stubNode) rewind() {
	s.pos = 0
}

func (s *stubNode) Tick(ctx context.Context) (domain.Status, error) {
	s.ticks++
	if s.trace != nil {
		*s.trace = append(*s.trace, s.Name())
	}
	if s.err != nil {
		return domain.StatusIdle, s.err
	}
	i := s.pos
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.pos++
	return s.script[i], nil
}

func (s *stubNode) Halt() {
	s.halts++
}

func (s *stubNode) Close() error {
	if s.closed != nil {
		*s.closed = append(*s.closed, s.Name())
	}
	return nil
}

// closingSequence records its own Close so teardown order can be checked.
type closingSequence struct {
	*bt.Sequence
	closed *[]string
}

func (c closingSequence) Close() error {
	*c.closed = append(*c.closed, c.Name())
	return nil
}

var (
	success = domain.StatusSuccess
	failure = domain.StatusFailure
	running = domain.StatusRunning
	idle    = domain.StatusIdle
)

func tick(n bt.Node) (domain.Status, error) {
	return bt.Execute(context.Background(), n)
}
