package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gameclock/internal/accumulator"
	"gameclock/internal/config"
	"gameclock/internal/core"
	"gameclock/internal/driver"
	"gameclock/internal/metrics"
	"gameclock/internal/progress"
	"gameclock/internal/report"
	"gameclock/internal/schedule"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the process exit code so deferred cleanup runs before
// main exits.
func realMain(args []string) int {
	fs := flag.NewFlagSet("gameclock", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file (optional)")
	duration := fs.Duration("duration", 0, "stop after this much real time (0 = until interrupted)")
	mode := fs.String("mode", "", "tracking mode override: delta, timestamp")
	output := fs.String("output", "text", "output format: text, json")
	quiet := fs.Bool("quiet", false, "suppress the live clock line")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	if *output != "text" && *output != "json" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		return ExitError
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: building logger: %v\n", err)
		return ExitError
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.LoadConfig(afero.NewOsFs(), *configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return ExitError
		}
	}
	if *mode != "" {
		cfg.Accumulator.Mode = *mode
	}

	if err := run(cfg, *duration, *output, *quiet, *metricsAddr, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func run(cfg *config.Config, duration time.Duration, output string, quiet bool, metricsAddr string, logger *zap.Logger) error {
	opts, err := cfg.Accumulator.Options()
	if err != nil {
		return err
	}

	clock := core.NewMonotonicClock()
	var scale core.ScaleProvider = core.StaticScale(1)
	if cfg.GlobalScale != nil && len(cfg.GlobalScale.Phases) > 0 {
		scale = schedule.NewWithClock(*cfg.GlobalScale, clock)
	}

	acc := accumulator.New(clock, scale, append(opts, accumulator.WithLogger(logger.Named("accumulator")))...)
	prog := progress.NewProgress(cfg.Output.ProgressInterval, quiet)
	exporter := metrics.NewExporter()

	stepsPerSecond := *cfg.Driver.StepsPerSecond
	drv := driver.New(acc, clock, driver.Config{
		StepsPerSecond: stepsPerSecond,
		MaxSteps:       cfg.Driver.MaxSteps,
		Logger:         logger.Named("driver"),
		OnStep: func(a *accumulator.Accumulator) {
			s := a.Snapshot()
			prog.Update(s)
			exporter.Observe(s)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	prog.Printf("gameclock starting: mode %s, %d steps/s", acc.Mode(), stepsPerSecond)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return forwardControlSignals(ctx, drv, prog)
	})
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: exporter.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Info("serving metrics", zap.String("addr", metricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	var runErr error
	g.Go(func() error {
		runErr = drv.Run(ctx)
		return errDriverDone
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errDriverDone) {
		return err
	}
	if runErr != nil {
		return runErr
	}

	prog.Stop()

	opt := report.Options{
		IncludeMilliseconds: cfg.Output.IncludeMilliseconds,
		Delimiter:           cfg.Output.Delimiter,
		Steps:               drv.Steps(),
	}
	if output == "json" {
		return report.FormatJSON(os.Stdout, acc.Snapshot(), opt)
	}
	report.FormatText(os.Stdout, acc.Snapshot(), opt)
	return nil
}

// errDriverDone cancels the group once the step loop returns.
var errDriverDone = errors.New("driver finished")
