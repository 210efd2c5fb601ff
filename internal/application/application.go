package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/strip-cutter/internal/catalog"
	"github.com/eugenenazirov/strip-cutter/internal/config"
	"github.com/eugenenazirov/strip-cutter/internal/geometry"
	"github.com/eugenenazirov/strip-cutter/internal/minimizer"
)

// App encapsulates the cutting job and its dependencies.
type App struct {
	catalog        *catalog.Catalog
	solver         minimizer.Minimizer
	progress       *progressLogger
	logger         *zap.Logger
	width          float64
	tieBreak       minimizer.TieBreak
	timeout        time.Duration
	showPlacements bool
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	pieces, err := catalog.FromPieces(cfg.MaxPieces, cfg.Pieces)
	if err != nil {
		return nil, fmt.Errorf("failed to build piece catalog: %w", err)
	}

	tieBreak, err := minimizer.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, fmt.Errorf("failed to apply tie-break: %w", err)
	}

	progress := newProgressLogger(logger, newTokenBucketLimiter(cfg.ProgressRPS, 1))
	solver := minimizer.New(
		minimizer.WithTieBreak(tieBreak),
		minimizer.WithObserver(progress.observe),
	)

	return &App{
		catalog:        pieces,
		solver:         solver,
		progress:       progress,
		logger:         logger,
		width:          cfg.Width,
		tieBreak:       tieBreak,
		timeout:        cfg.Timeout,
		showPlacements: cfg.ShowPlacements,
	}, nil
}

// Run searches for the lowest layout and writes its report to w. An
// infeasible job still writes a report and returns an error wrapping
// minimizer.ErrInfeasible.
func (a *App) Run(ctx context.Context, w io.Writer) (minimizer.Result, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	pieces := a.catalog.Multiset()
	a.logger.Info("search started",
		zap.Float64("width", a.width),
		zap.Int("pieces", len(pieces)),
		zap.String("tie_break", a.tieBreak.String()),
	)

	a.progress.reset()
	start := time.Now()
	res, err := a.solver.Solve(ctx, a.width, pieces)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, minimizer.ErrInfeasible):
		a.logger.Warn("no feasible layout", zap.Float64("width", a.width), zap.Duration("duration", elapsed))
		if werr := a.writeReport(w, res); werr != nil {
			return res, fmt.Errorf("write report: %w", werr)
		}
		return res, fmt.Errorf("width %v: %w", a.width, err)
	case err != nil:
		return res, fmt.Errorf("solve: %w", err)
	}

	a.logger.Info("search completed",
		zap.Float64("height", res.Height),
		zap.Float64("utilisation", res.Utilisation()),
		zap.Int64("subproblems", res.Stats.Subproblems),
		zap.Int64("partitions", res.Stats.Partitions),
		zap.Duration("duration", elapsed),
	)

	if err := a.writeReport(w, res); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}
	return res, nil
}

func (a *App) writeReport(w io.Writer, res minimizer.Result) error {
	width := geometry.FormatLength(a.width)
	if res.Feasible() {
		if _, err := fmt.Fprintf(w, "Strip width %s, minimal height %s\n\n", width, geometry.FormatLength(res.Height)); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "Strip width %s, no feasible layout\n\n", width); err != nil {
		return err
	}

	if err := res.Tree.Report(w); err != nil {
		return err
	}
	if !a.showPlacements || !res.Feasible() {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPIECE\tX\tY\tWIDTH\tHEIGHT\tROTATED")
	for _, p := range res.Tree.Placements() {
		name, _ := a.catalog.Name(p.Piece.ID())
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			name, p.Piece,
			geometry.FormatLength(p.Origin.X), geometry.FormatLength(p.Origin.Y),
			geometry.FormatLength(p.Width), geometry.FormatLength(p.Height),
			p.Rotated)
	}
	return tw.Flush()
}
