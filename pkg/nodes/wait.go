package nodes

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

const (
	PortNumTicks = "num_ticks"
	PortMsec     = "msec"
)

// WaitTicks reports RUNNING for "num_ticks" ticks and then SUCCESS.
type WaitTicks struct {
	bt.Base
	elapsed int
}

func NewWaitTicks(name string, cfg bt.NodeConfig) *WaitTicks {
	n := &WaitTicks{Base: bt.NewBase(name, bt.KindAction, cfg)}
	n.SetRegistrationID("WaitTicks")
	return n
}

func (n *WaitTicks) Tick(context.Context) (domain.Status, error) {
	target, err := bt.GetInput[int](n, PortNumTicks)
	if err != nil {
		return domain.StatusIdle, err
	}
	if n.elapsed >= target {
		n.elapsed = 0
		return domain.StatusSuccess, nil
	}
	n.elapsed++
	return domain.StatusRunning, nil
}

func (n *WaitTicks) Halt() {
	n.elapsed = 0
}

// Sleep reports RUNNING until "msec" milliseconds have passed since its first
// tick. It never blocks the ticking goroutine.
type Sleep struct {
	bt.Base
	deadline time.Time
	now      func() time.Time
}

func NewSleep(name string, cfg bt.NodeConfig) *Sleep {
	n := &Sleep{Base: bt.NewBase(name, bt.KindAction, cfg), now: time.Now}
	n.SetRegistrationID("Sleep")
	return n
}

func (n *Sleep) Tick(context.Context) (domain.Status, error) {
	if n.deadline.IsZero() {
		msec, err := bt.GetInput[int](n, PortMsec)
		if err != nil {
			return domain.StatusIdle, err
		}
		if msec <= 0 {
			return domain.StatusSuccess, nil
		}
		n.deadline = n.now().Add(time.Duration(msec) * time.Millisecond)
		return domain.StatusRunning, nil
	}
	if n.now().Before(n.deadline) {
		return domain.StatusRunning, nil
	}
	n.deadline = time.Time{}
	return domain.StatusSuccess, nil
}

func (n *Sleep) Halt() {
	n.deadline = time.Time{}
}
