package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/strip-cutter/internal/application"
	"github.com/eugenenazirov/strip-cutter/internal/config"
	"github.com/eugenenazirov/strip-cutter/internal/logging"
	"github.com/eugenenazirov/strip-cutter/internal/minimizer"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("strip-cutter", "Guillotine strip cutter - finds the lowest strip of a given width that holds every piece")
	configFile := kingpinApp.Flag("config", "Path to YAML job file").String()
	width := kingpinApp.Flag("width", "Strip width").Float64()
	pieces := kingpinApp.Flag("pieces", "Comma-separated pieces, e.g. 4x2*2,3x1").String()
	tieBreak := kingpinApp.Flag("tie-break", "Strategy kept on equal heights (vertical or horizontal)").String()
	maxPieces := kingpinApp.Flag("max-pieces", "Upper bound on the number of pieces").Int()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	progressRPS := kingpinApp.Flag("progress-rps", "Progress log lines per second (set 0 to disable)").Default("-1").Float64()
	timeout := kingpinApp.Flag("timeout", "Abort the search after this duration").Duration()
	placements := kingpinApp.Flag("placements", "Print absolute piece placements").Bool()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile:  *configFile,
		Width:       width,
		PiecesStr:   pieces,
		TieBreak:    tieBreak,
		MaxPieces:   maxPieces,
		LogLevel:    logLevel,
		ProgressRPS: progressRPS,
		Timeout:     timeout,
		Placements:  placements,
	}

	cfg, err := config.Load(overrides)
	kingpinApp.FatalIfError(err, "failed to load configuration")

	logger, err := logging.New(cfg.LogLevel)
	kingpinApp.FatalIfError(err, "failed to initialize logger")

	ctx, stop := withSignals(context.Background(), logger)
	code := run(ctx, cfg, logger, os.Stdout)
	stop()
	_ = logger.Sync()
	os.Exit(code)
}

// run executes the job and returns the process exit code.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, out io.Writer) int {
	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return 2
	}

	if _, err := app.Run(ctx, out); err != nil {
		if errors.Is(err, minimizer.ErrInfeasible) {
			return 3
		}
		logger.Error("search failed", zap.Error(err))
		return 1
	}
	return 0
}

// withSignals cancels the returned context on SIGINT or SIGTERM.
func withSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-quit:
			logger.Info("interrupting search", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(quit)
		cancel()
	}
}
