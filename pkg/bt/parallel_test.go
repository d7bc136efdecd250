package bt_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallel(t *testing.T) {
	t.Run("TicksEveryChildEvenWhenRunning", func(t *testing.T) {
		a, b := newStub("a", running), newStub("b", running)
		par := bt.NewParallel("par", -1, 1, a, b)

		status, err := tick(par)
		require.NoError(t, err)
		assert.Equal(t, running, status)
		assert.Equal(t, 1, a.ticks)
		assert.Equal(t, 1, b.ticks)
	})

	t.Run("CompletedChildrenAreNotTickedAgain", func(t *testing.T) {
		a, b := newStub("a", success), newStub("b", running)
		par := bt.NewParallel("par", -1, 1, a, b)

		status, err := tick(par)
		require.NoError(t, err)
		assert.Equal(t, running, status)
		ok, ko := par.Counts()
		assert.Equal(t, 1, ok)
		assert.Equal(t, 0, ko)

		b.set(success)
		status, err = tick(par)
		require.NoError(t, err)
		assert.Equal(t, success, status)
		assert.Equal(t, 1, a.ticks)
		assert.Equal(t, 2, b.ticks)

		ok, ko = par.Counts()
		assert.Zero(t, ok+ko, "counters reset after completion")
	})

	t.Run("FailureThresholdHaltsRunningChildren", func(t *testing.T) {
		a, b := newStub("a", running), newStub("b", failure)
		par := bt.NewParallel("par", -1, 1, a, b)

		status, err := tick(par)
		require.NoError(t, err)
		assert.Equal(t, failure, status)
		assert.Equal(t, idle, a.Status())
		assert.Equal(t, 1, a.halts)
	})

	t.Run("SuccessThresholdOfOne", func(t *testing.T) {
		par := bt.NewParallel("par", 1, -1, newStub("a", failure), newStub("b", success))

		status, err := tick(par)
		require.NoError(t, err)
		assert.Equal(t, success, status)
	})

	t.Run("FailsWhenSuccessBecomesImpossible", func(t *testing.T) {
		a, b := newStub("a", failure), newStub("b", running)
		par := bt.NewParallel("par", -1, -1, a, b)

		status, err := tick(par)
		require.NoError(t, err)
		assert.Equal(t, failure, status)
		assert.Equal(t, 0, b.ticks)
	})

	t.Run("ThresholdOutOfRange", func(t *testing.T) {
		for _, th := range [][2]int{{3, 1}, {1, 3}, {0, 1}, {-4, 1}} {
			par := bt.NewParallel("par", th[0], th[1], newStub("a", success), newStub("b", success))
			_, err := tick(par)
			assert.ErrorIs(t, err, domain.ErrLogic, "thresholds %v", th)
		}
	})

	t.Run("HaltResetsRound", func(t *testing.T) {
		a, b := newStub("a", success), newStub("b", running)
		par := bt.NewParallel("par", -1, 1, a, b)
		_, err := tick(par)
		require.NoError(t, err)

		bt.HaltNode(par)
		ok, ko := par.Counts()
		assert.Zero(t, ok+ko)
		assert.Equal(t, idle, a.Status())
		assert.Equal(t, idle, b.Status())

		_, err = tick(par)
		require.NoError(t, err)
		assert.Equal(t, 2, a.ticks, "a fresh round ticks every child")
	})
}
