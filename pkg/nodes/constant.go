package nodes

import (
	"context"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

// AlwaysSuccess completes with SUCCESS on every tick.
type AlwaysSuccess struct {
	bt.Base
}

func NewAlwaysSuccess(name string) *AlwaysSuccess {
	n := &AlwaysSuccess{Base: bt.NewBase(name, bt.KindAction, bt.NodeConfig{})}
	n.SetRegistrationID("AlwaysSuccess")
	return n
}

func (n *AlwaysSuccess) Tick(context.Context) (domain.Status, error) {
	return domain.StatusSuccess, nil
}

func (n *AlwaysSuccess) Halt() {}

// AlwaysFailure completes with FAILURE on every tick.
type AlwaysFailure struct {
	bt.Base
}

func NewAlwaysFailure(name string) *AlwaysFailure {
	n := &AlwaysFailure{Base: bt.NewBase(name, bt.KindAction, bt.NodeConfig{})}
	n.SetRegistrationID("AlwaysFailure")
	return n
}

func (n *AlwaysFailure) Tick(context.Context) (domain.Status, error) {
	return domain.StatusFailure, nil
}

func (n *AlwaysFailure) Halt() {}
