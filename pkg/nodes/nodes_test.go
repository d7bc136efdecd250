package nodes

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(t *testing.T, n bt.Node) domain.Status {
	t.Helper()
	status, err := bt.Execute(context.Background(), n)
	require.NoError(t, err)
	return status
}

func config(bb *blackboard.Blackboard, ports map[string]string) bt.NodeConfig {
	return bt.NodeConfig{Blackboard: bb, Ports: ports}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, domain.StatusSuccess, tick(t, NewAlwaysSuccess("ok")))
	assert.Equal(t, domain.StatusFailure, tick(t, NewAlwaysFailure("ko")))
	assert.Equal(t, "AlwaysSuccess", NewAlwaysSuccess("ok").Type())
}

func TestSetBlackboard(t *testing.T) {
	bb := blackboard.New()
	bb.Set("source", 7)

	t.Run("Literal", func(t *testing.T) {
		n := NewSetBlackboard("set", config(bb, map[string]string{"value": "home", "output_key": "goal"}))
		assert.Equal(t, domain.StatusSuccess, tick(t, n))
		v, _ := bb.Get("goal")
		assert.Equal(t, "home", v)
	})

	t.Run("ReferenceCopiesValue", func(t *testing.T) {
		n := NewSetBlackboard("copy", config(bb, map[string]string{"value": "{source}", "output_key": "{target}"}))
		assert.Equal(t, domain.StatusSuccess, tick(t, n))
		v, _ := bb.Get("target")
		assert.Equal(t, 7, v)
	})

	t.Run("MissingOutputKey", func(t *testing.T) {
		n := NewSetBlackboard("bad", config(bb, map[string]string{"value": "x"}))
		_, err := bt.Execute(context.Background(), n)
		assert.ErrorIs(t, err, domain.ErrPortNotFound)
	})
}

func TestCheckBlackboard(t *testing.T) {
	bb := blackboard.New()
	bb.Set("battery", 80)

	match := NewCheckBlackboard("check", config(bb, map[string]string{"key": "battery", "expected": "80"}))
	assert.Equal(t, domain.StatusSuccess, tick(t, match))

	mismatch := NewCheckBlackboard("check", config(bb, map[string]string{"key": "{battery}", "expected": "10"}))
	assert.Equal(t, domain.StatusFailure, tick(t, mismatch))

	missing := NewCheckBlackboard("check", config(bb, map[string]string{"key": "door", "expected": "open"}))
	assert.Equal(t, domain.StatusFailure, tick(t, missing))
}

func TestWaitTicks(t *testing.T) {
	n := NewWaitTicks("wait", config(blackboard.New(), map[string]string{"num_ticks": "2"}))

	assert.Equal(t, domain.StatusRunning, tick(t, n))
	assert.Equal(t, domain.StatusRunning, tick(t, n))
	assert.Equal(t, domain.StatusSuccess, tick(t, n))

	assert.Equal(t, domain.StatusRunning, tick(t, n))
	bt.HaltNode(n)
	assert.Equal(t, 0, n.elapsed)

	zero := NewWaitTicks("now", config(blackboard.New(), map[string]string{"num_ticks": "0"}))
	assert.Equal(t, domain.StatusSuccess, tick(t, zero))
}

func TestSleep(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := NewSleep("sleep", config(blackboard.New(), map[string]string{"msec": "100"}))
	n.now = func() time.Time { return clock }

	assert.Equal(t, domain.StatusRunning, tick(t, n))
	clock = clock.Add(50 * time.Millisecond)
	assert.Equal(t, domain.StatusRunning, tick(t, n))
	clock = clock.Add(50 * time.Millisecond)
	assert.Equal(t, domain.StatusSuccess, tick(t, n))

	assert.Equal(t, domain.StatusRunning, tick(t, n))
	bt.HaltNode(n)
	assert.True(t, n.deadline.IsZero())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	bb := blackboard.New()
	bb.Set("greeting", "hello robot")

	n := NewLog("say", config(bb, map[string]string{"message": "{greeting}"}), logger)
	assert.Equal(t, domain.StatusSuccess, tick(t, n))
	assert.Contains(t, buf.String(), "hello robot")
	assert.Contains(t, buf.String(), "node=say")
}
