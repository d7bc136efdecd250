package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	monitor "github.com/aretw0/arbor/internal/adapters/http"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/adapters/filelock"
	redisadapter "github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/runner"
)

// traceCapacity bounds the transitions kept for --trace.
const traceCapacity = 100_000

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <tree-file>",
		Short: "Tick a tree until it completes",
		Long: `Builds the main tree of the file and ticks it every --period until it returns SUCCESS or FAILURE,
--max-ticks is reached, or the process receives SIGINT/SIGTERM. Every early exit halts the tree first.

Exit status: 0 on SUCCESS or a clean stop, 1 on errors, 2 when the tree completes with FAILURE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.applyRunFlags(cmd); err != nil {
				return err
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			if !quiet && tui.IsTerminal(cmd.ErrOrStderr()) {
				tui.PrintBanner(cmd.ErrOrStderr())
			}
			return a.run(cmd.Context(), cmd.OutOrStdout(), args[0], quiet)
		},
	}

	f := cmd.Flags()
	f.Duration("period", 0, "Pause between ticks (default 10ms)")
	f.Uint64("max-ticks", 0, "Stop after this many ticks (0 = no limit)")
	f.Bool("rearm", false, "Restart the tree each time it completes")
	f.Int("max-runs", 0, "With --rearm, stop after this many runs (0 = no limit)")
	f.String("http", "", "Serve the monitor API on this address (e.g. :8080)")
	f.String("trace", "", "Write the recorded transitions to this file")
	f.String("trace-format", "", "Trace file format: json or chrome")
	f.String("lock", "", "Directory for the lock file that keeps one driver per tree")
	f.String("redis", "", "Redis address: publish transitions to a stream")
	f.Bool("redis-lock", false, "Hold the tree lock in Redis instead of a lock file")
	f.BoolP("quiet", "q", false, "Do not print the final tree")
	return cmd
}

// applyRunFlags lets explicit flags win over the config file.
func (a *app) applyRunFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	c := &a.cfg
	if f.Changed("period") {
		d, _ := f.GetDuration("period")
		c.Run.Period = config.Duration{Duration: d}
	}
	if f.Changed("max-ticks") {
		c.Run.MaxTicks, _ = f.GetUint64("max-ticks")
	}
	if f.Changed("rearm") {
		c.Run.Rearm, _ = f.GetBool("rearm")
	}
	if f.Changed("max-runs") {
		c.Run.MaxRuns, _ = f.GetInt("max-runs")
	}
	if f.Changed("http") {
		c.HTTP.Addr, _ = f.GetString("http")
	}
	if f.Changed("trace") {
		c.Trace.File, _ = f.GetString("trace")
	}
	if f.Changed("trace-format") {
		c.Trace.Format, _ = f.GetString("trace-format")
	}
	if f.Changed("lock") {
		c.Lock.Dir, _ = f.GetString("lock")
	}
	if f.Changed("redis") {
		c.Redis.Addr, _ = f.GetString("redis")
	}
	if f.Changed("redis-lock") {
		c.Redis.Lock, _ = f.GetBool("redis-lock")
	}
	if c.Redis.Lock && c.Redis.Addr == "" {
		return fmt.Errorf("--redis-lock needs a Redis address")
	}
	return c.Validate()
}

func (a *app) run(ctx context.Context, out io.Writer, path string, quiet bool) error {
	cfg := a.cfg
	logger := a.logger

	doc, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}
	hooks := []domain.LifecycleHooks{observability.NewLogHooks(logger), metrics.Hooks()}

	var recorder *observability.Recorder
	if cfg.Trace.File != "" {
		recorder = observability.NewRecorder(traceCapacity)
		hooks = append(hooks, recorder.Hooks())
	}

	var events *observability.Broadcaster
	if cfg.HTTP.Addr != "" {
		events = observability.NewBroadcaster(256)
		hooks = append(hooks, observability.SinkHooks(events, logger))
	}

	var rdb *backend.Client
	if cfg.Redis.Addr != "" {
		rdb = backend.NewClient(&backend.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		var pubOpts []redisadapter.PublisherOption
		if cfg.Redis.MaxLen > 0 {
			pubOpts = append(pubOpts, redisadapter.WithMaxLen(cfg.Redis.MaxLen))
		}
		hooks = append(hooks, observability.SinkHooks(redisadapter.NewPublisher(rdb, cfg.Redis.Stream, pubOpts...), logger))
	}

	eng, err := a.newEngine(arbor.WithLifecycleHooks(observability.Compose(hooks...)))
	if err != nil {
		return err
	}
	tree, err := eng.Build(doc)
	if err != nil {
		return err
	}
	defer func() {
		if err := tree.Close(); err != nil {
			logger.Warn("Failed to close tree", "error", err)
		}
	}()

	opts := []runner.Option{
		runner.WithPeriod(cfg.Run.Period.Duration),
		runner.WithMaxTicks(cfg.Run.MaxTicks),
	}
	if cfg.Run.Rearm {
		opts = append(opts, runner.WithPolicy(runner.PolicyRearm, cfg.Run.MaxRuns))
	}
	if locker := newLocker(cfg, rdb); locker != nil {
		opts = append(opts, runner.WithLocker(locker, runner.DefaultLockTTL))
	}
	r := eng.NewRunner(opts...)

	sm := runner.NewSignalManager(ctx)
	defer sm.Stop()

	if cfg.HTTP.Addr != "" {
		stop, err := serveMonitor(cfg.HTTP.Addr, r, events, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	res, runErr := r.Run(sm.Context(), tree)
	if sig := sm.Received(); sig != nil {
		logger.Info("Interrupted", "signal", sig.String())
	}

	if recorder != nil {
		if err := writeTrace(recorder, cfg.Trace); err != nil {
			logger.Error("Failed to write trace", "file", cfg.Trace.File, "error", err)
		}
	}

	if !quiet {
		_ = tui.PrintStates(out, r.Snapshot().Nodes)
	}
	_ = tui.PrintSummary(out, res)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if res.Reason == runner.ReasonCompleted && res.Status == domain.StatusFailure {
		return &exitError{code: 2}
	}
	return nil
}

func newLocker(cfg config.Config, rdb *backend.Client) ports.Locker {
	switch {
	case cfg.Redis.Lock && rdb != nil:
		return redisadapter.NewLocker(rdb, cfg.Redis.LockPrefix)
	case cfg.Lock.Dir != "":
		return filelock.New(cfg.Lock.Dir)
	}
	return nil
}

func serveMonitor(addr string, r *runner.Runner, events *observability.Broadcaster, reg *prometheus.Registry, logger *slog.Logger) (func(), error) {
	handler, err := monitor.NewHandler(r,
		monitor.WithEvents(events),
		monitor.WithGatherer(reg),
		monitor.WithVersion(arbor.Version),
		monitor.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Monitor listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Monitor server failed", "error", err)
		}
	}()

	return func() {
		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "error", err)
			_ = srv.Close()
		}
	}, nil
}

func writeTrace(rec *observability.Recorder, tc config.TraceConfig) error {
	f, err := os.Create(tc.File)
	if err != nil {
		return err
	}
	if tc.Format == "chrome" {
		err = rec.WriteChromeTrace(f)
	} else {
		err = rec.WriteJSON(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
