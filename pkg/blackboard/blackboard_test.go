package blackboard_test

import (
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackboard_SetGetDelete(t *testing.T) {
	bb := blackboard.New()
	assert.False(t, bb.Has("target"))

	bb.Set("target", "atom")
	v, ok := bb.Get("target")
	require.True(t, ok)
	assert.Equal(t, "atom", v)

	bb.Delete("target")
	bb.Delete("target")
	assert.False(t, bb.Has("target"))
}

func TestBlackboard_KeysAndSnapshot(t *testing.T) {
	bb := blackboard.New()
	bb.Seed(map[string]any{"b": 2, "a": 1})

	assert.Equal(t, []string{"a", "b"}, bb.Keys())

	snap := bb.Snapshot()
	snap["c"] = 3
	assert.False(t, bb.Has("c"), "snapshot must not alias the store")
}

func TestGet_Conversion(t *testing.T) {
	bb := blackboard.New()
	bb.Seed(map[string]any{
		"speed":   "42",
		"enabled": "true",
		"delay":   "250ms",
		"ratio":   1.5,
		"ids":     "1,2,3",
	})

	speed, err := blackboard.Get[int](bb, "speed")
	require.NoError(t, err)
	assert.Equal(t, 42, speed)

	enabled, err := blackboard.Get[bool](bb, "enabled")
	require.NoError(t, err)
	assert.True(t, enabled)

	delay, err := blackboard.Get[time.Duration](bb, "delay")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, delay)

	ratio, err := blackboard.Get[float64](bb, "ratio")
	require.NoError(t, err)
	assert.Equal(t, 1.5, ratio)

	ids, err := blackboard.Get[[]int](bb, "ids")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestGet_Errors(t *testing.T) {
	bb := blackboard.New()
	_, err := blackboard.Get[int](bb, "missing")
	assert.ErrorIs(t, err, blackboard.ErrKeyNotFound)

	bb.Set("speed", "fast")
	_, err = blackboard.Get[int](bb, "speed")
	assert.Error(t, err)
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		isRef bool
	}{
		{"{target}", "target", true},
		{" { target } ", "target", true},
		{"{}", "", false},
		{"target", "", false},
		{"{target", "", false},
		{"512", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, ok := blackboard.ParseReference(tt.in)
			assert.Equal(t, tt.isRef, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}
