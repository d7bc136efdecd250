package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(name string, status domain.Status) bt.Node {
	return bt.NewAction(name, bt.NodeConfig{}, func(context.Context, bt.Node) (domain.Status, error) {
		return status, nil
	})
}

// runTree ticks a two-leaf sequence once: "ok" succeeds and "busy" keeps running.
func runTree(t *testing.T, hooks domain.LifecycleHooks) *bt.Tree {
	t.Helper()
	root := bt.NewSequence("root", constant("ok", domain.StatusSuccess), constant("busy", domain.StatusRunning))
	tree, err := bt.NewTree(root, nil, bt.WithID("demo"), bt.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	_, err = tree.Tick(context.Background())
	require.NoError(t, err)
	return tree
}

func TestCompose(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnStatusChange: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnStatusChange: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnTick:         func(context.Context, *domain.TickEvent) { calls = append(calls, "tick") },
	}

	hooks := Compose(a, domain.LifecycleHooks{}, b)
	hooks.OnStatusChange(context.Background(), &domain.TransitionEvent{})
	hooks.OnTick(context.Background(), &domain.TickEvent{})
	assert.Equal(t, []string{"a", "b", "tick"}, calls)

	empty := Compose()
	assert.Nil(t, empty.OnStatusChange)
	assert.Nil(t, empty.OnTick)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	runTree(t, NewLogHooks(logger))
	out := buf.String()
	assert.Contains(t, out, `msg="Node status changed"`)
	assert.Contains(t, out, "node=busy")
	assert.Contains(t, out, "to=RUNNING")
	assert.Contains(t, out, `msg="Tick completed"`)

	buf.Reset()
	NewLogHooks(logger).OnTick(context.Background(), &domain.TickEvent{Tick: 4, Err: errors.New("motor stalled")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "motor stalled")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	runTree(t, m.Hooks())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("busy", "RUNNING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("ok", "SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("demo", "RUNNING")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tickDuration))

	m.Hooks().OnTick(context.Background(), &domain.TickEvent{EventBase: domain.EventBase{TreeID: "demo"}, Err: errors.New("boom")})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks.WithLabelValues("demo", StatusError)))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "collectors cannot be registered twice")
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(0)
	runTree(t, rec.Hooks())

	entries := rec.Entries()
	var got []string
	for _, e := range entries {
		got = append(got, e.Node+":"+e.Current.String())
	}
	assert.Equal(t, []string{"ok:SUCCESS", "busy:RUNNING", "root:RUNNING"}, got)

	var buf bytes.Buffer
	require.NoError(t, rec.WriteJSON(&buf))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "RUNNING", decoded[1]["current"])
	assert.Equal(t, "demo", decoded[1]["tree"])
}

func TestRecorder_Capacity(t *testing.T) {
	rec := NewRecorder(2)
	hooks := rec.Hooks()
	for _, name := range []string{"a", "b", "c"} {
		hooks.OnStatusChange(context.Background(), &domain.TransitionEvent{NodeName: name})
	}

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Node)
	assert.Equal(t, "c", entries[1].Node)
	assert.Equal(t, 1, rec.Dropped())
}

func TestRecorder_Overfill(t *testing.T) {
	rec := NewRecorder(3)
	hooks := rec.Hooks()
	for uid := 0; uid < 8; uid++ {
		hooks.OnStatusChange(context.Background(), &domain.TransitionEvent{NodeUID: uid})
	}

	var uids []int
	for _, e := range rec.Entries() {
		uids = append(uids, e.UID)
	}
	assert.Equal(t, []int{5, 6, 7}, uids)
	assert.Equal(t, 5, rec.Dropped())

	hooks.OnStatusChange(context.Background(), &domain.TransitionEvent{NodeUID: 8})
	uids = uids[:0]
	for _, e := range rec.Entries() {
		uids = append(uids, e.UID)
	}
	assert.Equal(t, []int{6, 7, 8}, uids)
	assert.Equal(t, 6, rec.Dropped())
}

func TestRecorder_ChromeTrace(t *testing.T) {
	rec := NewRecorder(0)
	hooks := rec.Hooks()
	t0 := time.UnixMicro(1_000)
	emit := func(at time.Duration, prev, cur domain.Status) {
		hooks.OnStatusChange(context.Background(), &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: t0.Add(at)},
			NodeUID:   2, NodeName: "move", NodeType: "MoveArm",
			Previous: prev, Current: cur,
		})
	}
	emit(0, domain.StatusIdle, domain.StatusRunning)
	emit(time.Millisecond, domain.StatusRunning, domain.StatusSuccess)
	emit(time.Millisecond, domain.StatusSuccess, domain.StatusIdle)
	emit(2*time.Millisecond, domain.StatusIdle, domain.StatusRunning)
	emit(3*time.Millisecond, domain.StatusRunning, domain.StatusIdle)

	var buf bytes.Buffer
	require.NoError(t, rec.WriteChromeTrace(&buf))

	var trace struct {
		TraceEvents []chromeEvent `json:"traceEvents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &trace))

	var phases []string
	for _, e := range trace.TraceEvents {
		phases = append(phases, e.Phase)
		assert.Equal(t, 2, e.TID)
		assert.Equal(t, "move", e.Name)
	}
	assert.Equal(t, []string{"B", "E", "B", "E"}, phases)
	assert.Equal(t, int64(1_000), trace.TraceEvents[0].TS)
	assert.Equal(t, "HALTED", trace.TraceEvents[3].Args["status"])
}

// A child of a memory-less Sequence stays at SUCCESS between ticks, so its next
// activation starts from a completed status rather than IDLE.
func TestRecorder_ChromeTraceRestartFromCompleted(t *testing.T) {
	rec := NewRecorder(0)
	hooks := rec.Hooks()
	emit := func(prev, cur domain.Status) {
		hooks.OnStatusChange(context.Background(), &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: time.UnixMicro(1_000)},
			NodeUID:   1, NodeName: "check", NodeType: "CheckBlackboard",
			Previous: prev, Current: cur,
		})
	}
	emit(domain.StatusIdle, domain.StatusSuccess)
	emit(domain.StatusSuccess, domain.StatusRunning)
	emit(domain.StatusRunning, domain.StatusSuccess)
	emit(domain.StatusSuccess, domain.StatusFailure)

	var buf bytes.Buffer
	require.NoError(t, rec.WriteChromeTrace(&buf))
	var trace struct {
		TraceEvents []chromeEvent `json:"traceEvents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &trace))

	var phases []string
	for _, e := range trace.TraceEvents {
		phases = append(phases, e.Phase)
	}
	assert.Equal(t, []string{"B", "E", "B", "E", "B", "E"}, phases)
}

type failingSink struct {
	events []*domain.TransitionEvent
}

func (s *failingSink) Publish(_ context.Context, e *domain.TransitionEvent) error {
	s.events = append(s.events, e)
	return errors.New("stream unavailable")
}

func TestSinkHooks(t *testing.T) {
	var buf bytes.Buffer
	sink := &failingSink{}
	runTree(t, SinkHooks(sink, slog.New(slog.NewTextHandler(&buf, nil))))

	assert.Len(t, sink.events, 3)
	assert.Contains(t, buf.String(), "stream unavailable")
}
