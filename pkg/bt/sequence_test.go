package bt_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	t.Run("AllSuccessInOneTick", func(t *testing.T) {
		a, b, c := newStub("a", success), newStub("b", success), newStub("c", success)
		seq := bt.NewSequence("seq", a, b, c)

		status, err := tick(seq)
		require.NoError(t, err)
		assert.Equal(t, success, status)
		assert.Equal(t, []int{1, 1, 1}, []int{a.ticks, b.ticks, c.ticks})
	})

	t.Run("RunningStopsAndRestartsFromZero", func(t *testing.T) {
		a, b, c := newStub("a", success), newStub("b", running), newStub("c", success)
		seq := bt.NewSequence("seq", a, b, c)

		status, err := tick(seq)
		require.NoError(t, err)
		assert.Equal(t, running, status)
		assert.Equal(t, 1, seq.Cursor())
		assert.Equal(t, 0, c.ticks)

		status, err = tick(seq)
		require.NoError(t, err)
		assert.Equal(t, running, status)
		assert.Equal(t, 2, a.ticks, "memory-less sequence re-ticks succeeded children")
		assert.Equal(t, 2, b.ticks)
		assert.Equal(t, 0, c.ticks)
	})

	t.Run("FailureHaltsRemainingChildren", func(t *testing.T) {
		a, b, c := newStub("a", success), newStub("b", failure), newStub("c", success)
		seq := bt.NewSequence("seq", a, b, c)

		status, err := tick(seq)
		require.NoError(t, err)
		assert.Equal(t, failure, status)
		assert.Equal(t, 0, c.ticks)
		assert.Equal(t, idle, b.Status())
		assert.Equal(t, idle, c.Status())
		assert.Equal(t, 0, a.halts, "children that succeeded before the failure are not halted")
		assert.Equal(t, success, a.Status())
	})

	t.Run("EarlierFailureHaltsRunningSibling", func(t *testing.T) {
		a, b := newStub("a", success, failure), newStub("b", running)
		seq := bt.NewSequence("seq", a, b)

		status, err := tick(seq)
		require.NoError(t, err)
		assert.Equal(t, running, status)
		assert.Equal(t, running, b.Status())

		status, err = tick(seq)
		require.NoError(t, err)
		assert.Equal(t, failure, status)
		assert.Equal(t, idle, b.Status())
		assert.Equal(t, 1, b.halts)
	})

	t.Run("OnlyContiguousPrefixIsTicked", func(t *testing.T) {
		children := []*stubNode{newStub("a", success), newStub("b", running), newStub("c", success), newStub("d", success)}
		seq := bt.NewSequence("seq", children[0], children[1], children[2], children[3])

		_, err := tick(seq)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 1, 0, 0}, []int{children[0].ticks, children[1].ticks, children[2].ticks, children[3].ticks})
	})
}

func TestSequenceStar_ResumesAtRunningChild(t *testing.T) {
	c0 := newStub("c0", success)
	c1 := newStub("c1", running, running, success)
	c2 := newStub("c2", success)
	seq := bt.NewSequenceStar("star", c0, c1, c2)

	// tick 1
	status, err := tick(seq)
	require.NoError(t, err)
	assert.Equal(t, running, status)
	assert.Equal(t, 1, seq.Cursor())
	assert.Equal(t, []int{1, 1, 0}, []int{c0.ticks, c1.ticks, c2.ticks})

	// tick 2: only c1 is ticked again
	status, err = tick(seq)
	require.NoError(t, err)
	assert.Equal(t, running, status)
	assert.Equal(t, 1, seq.Cursor())
	assert.Equal(t, []int{1, 2, 0}, []int{c0.ticks, c1.ticks, c2.ticks})

	// tick 3: c1 succeeds, c2 runs in the same tick
	status, err = tick(seq)
	require.NoError(t, err)
	assert.Equal(t, success, status)
	assert.Equal(t, 0, seq.Cursor())
	assert.Equal(t, []int{1, 3, 1}, []int{c0.ticks, c1.ticks, c2.ticks})
	for _, c := range []*stubNode{c0, c1, c2} {
		assert.Equal(t, idle, c.Status(), "children are re-armed after completion")
	}
}

func TestSequenceStar_FailureMemory(t *testing.T) {
	c0 := newStub("c0", success)
	c1 := newStub("c1", failure)
	seq := bt.NewSequenceStar("star", c0, c1)

	status, err := tick(seq)
	require.NoError(t, err)
	assert.Equal(t, failure, status)
	assert.Equal(t, 1, seq.Cursor(), "cursor is not reset on failure")
	assert.Equal(t, 1, c1.halts)
	assert.Equal(t, idle, c1.Status())
	assert.Equal(t, 0, c0.halts)

	c1.set(success)
	status, err = tick(seq)
	require.NoError(t, err)
	assert.Equal(t, success, status)
	assert.Equal(t, 1, c0.ticks, "succeeded children are not re-ticked")
	assert.Equal(t, 2, c1.ticks)
	assert.Equal(t, 0, seq.Cursor())
}

func TestSequenceStar_HaltIsIdempotent(t *testing.T) {
	c0, c1 := newStub("c0", success), newStub("c1", running)
	seq := bt.NewSequenceStar("star", c0, c1)

	_, err := tick(seq)
	require.NoError(t, err)
	require.Equal(t, 1, seq.Cursor())

	bt.HaltNode(seq)
	assert.Equal(t, 0, seq.Cursor())
	assert.Equal(t, idle, seq.Status())
	assert.Equal(t, idle, c1.Status())

	bt.HaltNode(seq)
	assert.Equal(t, 0, seq.Cursor())
	assert.Equal(t, idle, seq.Status())
	assert.Equal(t, idle, c0.Status())
	assert.Equal(t, idle, c1.Status())
}

func TestSequenceStar_HaltRoundTrip(t *testing.T) {
	run := func(seq bt.Node, stubs ...*stubNode) {
		for _, s := range stubs {
			s.rewind()
		}
		for i := 0; i < 10; i++ {
			status, err := tick(seq)
			require.NoError(t, err)
			if status != running {
				return
			}
		}
		t.Fatal("sequence did not complete")
	}

	var first []string
	a := newStub("a", success).withTrace(&first)
	b := newStub("b", running, success).withTrace(&first)
	c := newStub("c", success).withTrace(&first)
	seq := bt.NewSequenceStar("star", a, b, c)
	run(seq, a, b, c)

	bt.HaltNode(seq)
	var second []string
	a.trace, b.trace, c.trace = &second, &second, &second
	run(seq, a, b, c)

	var fresh []string
	fa := newStub("a", success).withTrace(&fresh)
	fb := newStub("b", running, success).withTrace(&fresh)
	fc := newStub("c", success).withTrace(&fresh)
	run(bt.NewSequenceStar("star", fa, fb, fc), fa, fb, fc)

	assert.Equal(t, []string{"a", "b", "b", "c"}, fresh)
	assert.Equal(t, fresh, first)
	assert.Equal(t, fresh, second)
}

func TestFallback(t *testing.T) {
	t.Run("FirstSuccessWins", func(t *testing.T) {
		a, b := newStub("a", success), newStub("b", success)
		fb := bt.NewFallback("fb", a, b)

		status, err := tick(fb)
		require.NoError(t, err)
		assert.Equal(t, success, status)
		assert.Equal(t, 0, b.ticks)
	})

	t.Run("LaterSuccess", func(t *testing.T) {
		a, b := newStub("a", failure), newStub("b", success)
		fb := bt.NewFallback("fb", a, b)

		status, err := tick(fb)
		require.NoError(t, err)
		assert.Equal(t, success, status)
		assert.Equal(t, failure, a.Status())
		assert.Equal(t, 0, a.halts)
		assert.Equal(t, idle, b.Status())
	})

	t.Run("AllFail", func(t *testing.T) {
		fb := bt.NewFallback("fb", newStub("a", failure), newStub("b", failure))

		status, err := tick(fb)
		require.NoError(t, err)
		assert.Equal(t, failure, status)
	})

	t.Run("RunningStops", func(t *testing.T) {
		a, b, c := newStub("a", failure), newStub("b", running), newStub("c", success)
		fb := bt.NewFallback("fb", a, b, c)

		status, err := tick(fb)
		require.NoError(t, err)
		assert.Equal(t, running, status)
		assert.Equal(t, 1, fb.Cursor())
		assert.Equal(t, 0, c.ticks)
	})
}

func TestComposites_RejectIdleChild(t *testing.T) {
	builders := map[string]func(child bt.Node) bt.Node{
		"Sequence":     func(c bt.Node) bt.Node { return bt.NewSequence("n", c) },
		"SequenceStar": func(c bt.Node) bt.Node { return bt.NewSequenceStar("n", c) },
		"Fallback":     func(c bt.Node) bt.Node { return bt.NewFallback("n", c) },
		"Parallel":     func(c bt.Node) bt.Node { return bt.NewParallel("n", -1, 1, c) },
		"Inverter":     func(c bt.Node) bt.Node { return bt.NewInverter("n", c) },
		"ForceSuccess": func(c bt.Node) bt.Node { return bt.NewForceSuccess("n", c) },
		"ForceFailure": func(c bt.Node) bt.Node { return bt.NewForceFailure("n", c) },
		"Retry":        func(c bt.Node) bt.Node { return bt.NewRetry("n", 3, c) },
		"Repeat":       func(c bt.Node) bt.Node { return bt.NewRepeat("n", 3, c) },
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			node := build(newStub("broken", idle))
			status, err := tick(node)
			assert.ErrorIs(t, err, domain.ErrLogic)
			assert.Equal(t, idle, status)
			assert.Equal(t, idle, node.(interface{ Status() domain.Status }).Status())
		})
	}
}

func TestComposites_PropagateRuntimeError(t *testing.T) {
	rtErr := domain.NewRuntimeError("sensor", assert.AnError)
	leaf := newStub("sensor", success)
	leaf.err = rtErr

	root := bt.NewSequence("root", newStub("ok", success), bt.NewFallback("fb", bt.NewInverter("inv", leaf)))
	_, err := tick(root)

	var got *domain.RuntimeError
	require.ErrorAs(t, err, &got)
	assert.Same(t, rtErr, got, "control nodes must not wrap leaf errors")
}

func TestComposites_RequireChildren(t *testing.T) {
	for _, n := range []bt.Node{
		bt.NewSequence("seq"),
		bt.NewSequenceStar("star"),
		bt.NewFallback("fb"),
		bt.NewParallel("par", -1, 1),
		bt.NewInverter("inv", nil),
		bt.NewRetry("retry", 2, nil),
	} {
		_, err := tick(n)
		assert.ErrorIs(t, err, domain.ErrLogic, bt.BaseOf(n).Type())
	}
}
