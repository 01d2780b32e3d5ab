// Command atlantis runs the pearl-processing scheduler: it reads one
// world snapshot per line on stdin and writes one command map per line
// on stdout until EOF.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"atlantis/internal/config"
	"atlantis/internal/logging"
	"atlantis/internal/observability"
	"atlantis/internal/protocol"
	"atlantis/internal/render"
	"atlantis/pkg/scheduler"
	"atlantis/pkg/world"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlantis: config: %v\n", err)
		return 2
	}

	logger := logging.Default(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	if err := config.EnsureDir(cfg.RenderDir); err != nil {
		logger.Error("ensure render dir", "err", err)
		return 2
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, reg)
		g.Go(func() error { return obsServer.Serve(gctx) })
		logger.Info("observability listener enabled", "addr", cfg.MetricsAddr)
	}

	g.Go(func() error {
		err := tickLoop(gctx, cfg, logger, metrics, stdin, stdout)
		cancel() // stdin closing ends the whole process, side listener included
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("fatal", "err", err)
		return 1
	}
	return 0
}

// tickLoop is the scheduler's single-threaded core: read a snapshot line,
// compute commands, write a command line, repeat until EOF. No suspension
// points, no background work, no timers.
func tickLoop(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *observability.Metrics, stdin io.Reader, stdout io.Writer) error {
	reader := protocol.NewReader(stdin, cfg.MaxLineBytes)
	writer := protocol.NewWriter(stdout)
	sched := scheduler.New()

	for tick := 1; ; tick++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("malformed input: %w", err)
		}

		w, warnings, err := world.FromSnapshot(line)
		if err != nil {
			return fmt.Errorf("malformed input at tick %d: %w", tick, err)
		}
		for _, wrn := range warnings {
			logger.Warn("snapshot warning", "worker", wrn.WorkerID, "msg", wrn.Message)
		}

		start := time.Now()
		out := sched.Step(w)
		metrics.Ticks.Inc()
		metrics.Commands.Add(float64(len(out)))
		metrics.Backlog.Set(float64(sched.Backlog()))
		metrics.TickMillis.Observe(float64(time.Since(start).Microseconds()) / 1000.0)

		logger.Debug("tick", "n", tick, "commands", len(out), "backlog", sched.Backlog())

		if cfg.RenderDir != "" {
			if err := render.Tick(cfg.RenderDir, tick, w); err != nil {
				logger.Warn("render tick", "n", tick, "err", err)
			}
		}

		if err := writer.WriteLine(out); err != nil {
			return fmt.Errorf("write output at tick %d: %w", tick, err)
		}
	}
}

