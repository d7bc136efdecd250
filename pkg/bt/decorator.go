package bt

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// DecoratorNode is the base of every node with exactly one child.
type DecoratorNode struct {
	Base
	child Node
}

// NewDecoratorNode returns a DecoratorNode registered under typeID.
func NewDecoratorNode(name, typeID string) DecoratorNode {
	b := NewBase(name, KindDecorator, NodeConfig{})
	b.typeID = typeID
	return DecoratorNode{Base: b}
}

// SetChild attaches the single child.
func (d *DecoratorNode) SetChild(child Node) error {
	if d.child != nil {
		return domain.NewLogicError(d.name, "decorator already has a child")
	}
	if err := adopt(&d.Base, child); err != nil {
		return err
	}
	d.child = child
	return nil
}

// Child returns the decorated node (nil if not set yet).
func (d *DecoratorNode) Child() Node {
	return d.child
}

func (d *DecoratorNode) childNodes() []Node {
	if d.child == nil {
		return nil
	}
	return []Node{d.child}
}

func (d *DecoratorNode) setChild(child Node) {
	if child == nil {
		return
	}
	if err := d.SetChild(child); err != nil && d.buildErr == nil {
		d.buildErr = err
	}
}

func (d *DecoratorNode) tickChild(ctx context.Context) (domain.Status, error) {
	if d.child == nil {
		return domain.StatusIdle, domain.NewLogicError(d.name, "%s requires a child", d.typeID)
	}
	return Execute(ctx, d.child)
}

func (d *DecoratorNode) resetChild() {
	if d.child != nil {
		HaltNode(d.child)
	}
}

// Halt halts the child.
func (d *DecoratorNode) Halt() {
	d.resetChild()
}

// Inverter swaps SUCCESS and FAILURE.
type Inverter struct {
	DecoratorNode
}

// NewInverter creates an Inverter around child (which may be attached later).
func NewInverter(name string, child Node) *Inverter {
	n := &Inverter{DecoratorNode: NewDecoratorNode(name, "Inverter")}
	n.setChild(child)
	return n
}

func (n *Inverter) Tick(ctx context.Context) (domain.Status, error) {
	status, err := n.tickChild(ctx)
	if err != nil {
		return domain.StatusIdle, err
	}
	switch status {
	case domain.StatusSuccess:
		n.resetChild()
		return domain.StatusFailure, nil
	case domain.StatusFailure:
		n.resetChild()
		return domain.StatusSuccess, nil
	}
	return status, nil
}

// ForceSuccess turns any completed child status into SUCCESS.
type ForceSuccess struct {
	DecoratorNode
}

// NewForceSuccess creates a ForceSuccess around child.
func NewForceSuccess(name string, child Node) *ForceSuccess {
	n := &ForceSuccess{DecoratorNode: NewDecoratorNode(name, "ForceSuccess")}
	n.setChild(child)
	return n
}

func (n *ForceSuccess) Tick(ctx context.Context) (domain.Status, error) {
	status, err := n.tickChild(ctx)
	if err != nil {
		return domain.StatusIdle, err
	}
	if status.IsCompleted() {
		n.resetChild()
		return domain.StatusSuccess, nil
	}
	return status, nil
}

// ForceFailure turns any completed child status into FAILURE.
type ForceFailure struct {
	DecoratorNode
}

// NewForceFailure creates a ForceFailure around child.
func NewForceFailure(name string, child Node) *ForceFailure {
	n := &ForceFailure{DecoratorNode: NewDecoratorNode(name, "ForceFailure")}
	n.setChild(child)
	return n
}

func (n *ForceFailure) Tick(ctx context.Context) (domain.Status, error) {
	status, err := n.tickChild(ctx)
	if err != nil {
		return domain.StatusIdle, err
	}
	if status.IsCompleted() {
		n.resetChild()
		return domain.StatusFailure, nil
	}
	return status, nil
}

// Retry re-runs a failing child up to attempts times (-1 retries forever).
// Each retry starts on the next tick so a child that fails synchronously cannot
// spin inside a single tick.
type Retry struct {
	DecoratorNode
	attempts int
	failures int
}

// NewRetry creates a Retry around child.
func NewRetry(name string, attempts int, child Node) *Retry {
	n := &Retry{DecoratorNode: NewDecoratorNode(name, "Retry"), attempts: attempts}
	n.setChild(child)
	return n
}

// Failures returns the number of failed attempts in the current round.
func (n *Retry) Failures() int { return n.failures }

func (n *Retry) Tick(ctx context.Context) (domain.Status, error) {
	if n.attempts == 0 {
		return domain.StatusIdle, domain.NewLogicError(n.name, "Retry needs at least one attempt")
	}
	status, err := n.tickChild(ctx)
	if err != nil {
		return domain.StatusIdle, err
	}

	switch status {
	case domain.StatusSuccess:
		n.failures = 0
		n.resetChild()
		return domain.StatusSuccess, nil
	case domain.StatusFailure:
		n.failures++
		n.resetChild()
		if n.attempts > 0 && n.failures >= n.attempts {
			n.failures = 0
			return domain.StatusFailure, nil
		}
		return domain.StatusRunning, nil
	}
	return status, nil
}

func (n *Retry) Halt() {
	n.failures = 0
	n.DecoratorNode.Halt()
}

// Repeat re-runs a succeeding child cycles times (-1 repeats forever) and fails
// as soon as the child fails. Each repetition starts on the next tick.
type Repeat struct {
	DecoratorNode
	cycles int
	done   int
}

// NewRepeat creates a Repeat around child.
func NewRepeat(name string, cycles int, child Node) *Repeat {
	n := &Repeat{DecoratorNode: NewDecoratorNode(name, "Repeat"), cycles: cycles}
	n.setChild(child)
	return n
}

// Completed returns the number of successful cycles in the current round.
func (n *Repeat) Completed() int { return n.done }

func (n *Repeat) Tick(ctx context.Context) (domain.Status, error) {
	if n.cycles == 0 {
		return domain.StatusIdle, domain.NewLogicError(n.name, "Repeat needs at least one cycle")
	}
	status, err := n.tickChild(ctx)
	if err != nil {
		return domain.StatusIdle, err
	}

	switch status {
	case domain.StatusSuccess:
		n.done++
		n.resetChild()
		if n.cycles > 0 && n.done >= n.cycles {
			n.done = 0
			return domain.StatusSuccess, nil
		}
		return domain.StatusRunning, nil
	case domain.StatusFailure:
		n.done = 0
		n.resetChild()
		return domain.StatusFailure, nil
	}
	return status, nil
}

func (n *Repeat) Halt() {
	n.done = 0
	n.DecoratorNode.Halt()
}
