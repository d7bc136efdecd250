package bt_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPorts(t *testing.T) {
	bb := blackboard.New()
	bb.Set("speed", 2.5)
	cfg := bt.NodeConfig{
		Blackboard: bb,
		Ports: map[string]string{
			"count":   "42",
			"speed":   "{speed}",
			"timeout": "150ms",
			"result":  "{result}",
			"literal": "fixed",
			"missing": "{nope}",
		},
	}
	leaf := bt.NewAction("leaf", cfg, func(context.Context, bt.Node) (domain.Status, error) {
		return domain.StatusSuccess, nil
	})

	count, err := bt.GetInput[int](leaf, "count")
	require.NoError(t, err)
	assert.Equal(t, 42, count)

	speed, err := bt.GetInput[float64](leaf, "speed")
	require.NoError(t, err)
	assert.Equal(t, 2.5, speed)

	timeout, err := bt.GetInput[time.Duration](leaf, "timeout")
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, timeout)

	_, err = bt.GetInput[string](leaf, "absent")
	assert.ErrorIs(t, err, domain.ErrPortNotFound)
	var portErr *domain.PortError
	require.ErrorAs(t, err, &portErr)
	assert.Equal(t, "absent", portErr.Port)

	_, err = bt.GetInput[string](leaf, "missing")
	assert.ErrorIs(t, err, blackboard.ErrKeyNotFound)

	require.NoError(t, bt.SetOutput(leaf, "result", "done"))
	v, ok := bb.Get("result")
	require.True(t, ok)
	assert.Equal(t, "done", v)

	assert.Error(t, bt.SetOutput(leaf, "literal", 1))
	assert.ErrorIs(t, bt.SetOutput(leaf, "absent", 1), domain.ErrPortNotFound)
}

func TestReadPort_NeedsBlackboardForReferences(t *testing.T) {
	_, err := bt.ReadPort[string](bt.NodeConfig{Ports: map[string]string{"x": "{x}"}}, "x")
	assert.Error(t, err)
}

func TestCondition(t *testing.T) {
	answer := true
	cond := bt.NewCondition("check", bt.NodeConfig{}, func(context.Context, bt.Node) (bool, error) {
		return answer, nil
	})

	status, err := tick(cond)
	require.NoError(t, err)
	assert.Equal(t, success, status)

	answer = false
	status, err = tick(cond)
	require.NoError(t, err)
	assert.Equal(t, failure, status)
	assert.Equal(t, bt.KindCondition, cond.Kind())
}

func TestStatefulAction(t *testing.T) {
	var starts, polls, halts int
	action := bt.NewStatefulAction("move", bt.NodeConfig{},
		func(context.Context, bt.Node) (domain.Status, error) {
			starts++
			return domain.StatusRunning, nil
		},
		func(context.Context, bt.Node) (domain.Status, error) {
			polls++
			if polls == 2 {
				return domain.StatusSuccess, nil
			}
			return domain.StatusRunning, nil
		},
		func(bt.Node) { halts++ },
	)

	status, err := tick(action)
	require.NoError(t, err)
	assert.Equal(t, running, status)
	assert.Equal(t, 1, starts)

	status, err = tick(action)
	require.NoError(t, err)
	assert.Equal(t, running, status)
	assert.Equal(t, 1, polls)

	bt.HaltNode(action)
	bt.HaltNode(action)
	assert.Equal(t, 1, halts, "OnHalted runs only when the action was RUNNING")
	assert.Equal(t, idle, action.Status())

	status, err = tick(action)
	require.NoError(t, err)
	assert.Equal(t, running, status)
	assert.Equal(t, 2, starts, "a halted action starts over")

	status, err = tick(action)
	require.NoError(t, err)
	assert.Equal(t, success, status)
}

func TestAsyncAction(t *testing.T) {
	t.Run("ReportsRunningUntilWorkReturns", func(t *testing.T) {
		release := make(chan struct{})
		action := bt.NewAsyncAction("wait", bt.NodeConfig{}, func(context.Context, bt.Node) (bt.WorkFunc, error) {
			return func(ctx context.Context) (domain.Status, error) {
				<-release
				return domain.StatusSuccess, nil
			}, nil
		})

		status, err := tick(action)
		require.NoError(t, err)
		assert.Equal(t, running, status)

		status, err = tick(action)
		require.NoError(t, err)
		assert.Equal(t, running, status)

		close(release)
		assert.Eventually(t, func() bool {
			status, err := tick(action)
			return err == nil && status == success
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("HaltCancelsWork", func(t *testing.T) {
		cancelled := make(chan struct{})
		action := bt.NewAsyncAction("wait", bt.NodeConfig{}, func(context.Context, bt.Node) (bt.WorkFunc, error) {
			return func(ctx context.Context) (domain.Status, error) {
				<-ctx.Done()
				close(cancelled)
				return domain.StatusFailure, ctx.Err()
			}, nil
		})

		_, err := tick(action)
		require.NoError(t, err)
		bt.HaltNode(action)

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("work was not cancelled")
		}
		assert.Equal(t, idle, action.Status())
	})

	t.Run("StartErrorIsReturned", func(t *testing.T) {
		boom := errors.New("boom")
		action := bt.NewAsyncAction("wait", bt.NodeConfig{}, func(context.Context, bt.Node) (bt.WorkFunc, error) {
			return nil, boom
		})
		_, err := tick(action)
		assert.ErrorIs(t, err, boom)
	})
}

func TestExecute_RecoversAfterPanickingTick(t *testing.T) {
	panics := true
	leaf := bt.NewAction("flaky", bt.NodeConfig{}, func(context.Context, bt.Node) (domain.Status, error) {
		if panics {
			panics = false
			panic("boom")
		}
		return domain.StatusSuccess, nil
	})

	assert.PanicsWithValue(t, "boom", func() { _, _ = tick(leaf) })

	status, err := tick(leaf)
	require.NoError(t, err)
	assert.Equal(t, success, status)
}
