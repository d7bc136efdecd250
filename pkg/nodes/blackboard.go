package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// Port names shared by the blackboard leaves.
const (
	PortValue     = "value"
	PortOutputKey = "output_key"
	PortKey       = "key"
	PortExpected  = "expected"
)

// SetBlackboard copies the "value" port (a literal or a reference) into the
// entry named by "output_key", which may be written bare or as "{key}".
type SetBlackboard struct {
	bt.Base
}

func NewSetBlackboard(name string, cfg bt.NodeConfig) *SetBlackboard {
	n := &SetBlackboard{Base: bt.NewBase(name, bt.KindAction, cfg)}
	n.SetRegistrationID("SetBlackboard")
	return n
}

func (n *SetBlackboard) Tick(context.Context) (domain.Status, error) {
	value, err := bt.GetInput[any](n, PortValue)
	if err != nil {
		return domain.StatusIdle, err
	}
	key, err := entryKey(n, PortOutputKey)
	if err != nil {
		return domain.StatusIdle, err
	}
	n.Config().Blackboard.Set(key, value)
	return domain.StatusSuccess, nil
}

func (n *SetBlackboard) Halt() {}

// CheckBlackboard succeeds when the entry named by "key" prints the same as the
// "expected" port. A missing entry is a FAILURE, not an error.
type CheckBlackboard struct {
	bt.Base
}

func NewCheckBlackboard(name string, cfg bt.NodeConfig) *CheckBlackboard {
	n := &CheckBlackboard{Base: bt.NewBase(name, bt.KindCondition, cfg)}
	n.SetRegistrationID("CheckBlackboard")
	return n
}

func (n *CheckBlackboard) Tick(context.Context) (domain.Status, error) {
	key, err := entryKey(n, PortKey)
	if err != nil {
		return domain.StatusIdle, err
	}
	expected, err := bt.GetInput[string](n, PortExpected)
	if err != nil {
		return domain.StatusIdle, err
	}

	value, ok := n.Config().Blackboard.Get(key)
	if ok && fmt.Sprint(value) == expected {
		return domain.StatusSuccess, nil
	}
	return domain.StatusFailure, nil
}

func (n *CheckBlackboard) Halt() {}

func entryKey(n bt.Node, port string) (string, error) {
	b := bt.BaseOf(n)
	raw, ok := b.Config().Raw(port)
	if !ok || raw == "" {
		return "", &domain.PortError{Node: b.Name(), Port: port, Cause: domain.ErrPortNotFound}
	}
	if b.Config().Blackboard == nil {
		return "", &domain.PortError{Node: b.Name(), Port: port, Cause: fmt.Errorf("no blackboard attached")}
	}
	if key, isRef := blackboard.ParseReference(raw); isRef {
		return key, nil
	}
	return raw, nil
}
