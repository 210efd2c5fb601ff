// Package minimizer finds the lowest strip of a given width that holds a
// multiset of rectangles using guillotine cuts only. The search is
// exhaustive: every two-way partition of the pieces is tried with every
// integer vertical cut position and with a horizontal cut.
package minimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/eugenenazirov/strip-cutter/internal/cuttree"
	"github.com/eugenenazirov/strip-cutter/internal/geometry"
)

const defaultCheckpointInterval = 1 << 12

// Option configures a Solver.
type Option func(*options)

type options struct {
	tieBreak   TieBreak
	observer   func(Stats)
	checkpoint int64
}

// WithTieBreak selects which strategy wins on equal heights.
func WithTieBreak(t TieBreak) Option {
	return func(o *options) {
		o.tieBreak = t
	}
}

// WithObserver registers a callback invoked periodically during the search
// and once when it completes.
func WithObserver(fn func(Stats)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithCheckpointInterval sets how many subproblems are evaluated between
// cancellation checks and observer calls.
func WithCheckpointInterval(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.checkpoint = int64(n)
		}
	}
}

// Solver validates input and runs the search.
type Solver struct {
	opts options
}

var _ Minimizer = (*Solver)(nil)

// New creates a Solver.
func New(opts ...Option) *Solver {
	s := &Solver{opts: options{checkpoint: defaultCheckpointInterval}}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// MinHeight returns the minimal height of a strip of the given width that
// holds d, together with the cut tree realising it. Infeasible inputs yield
// the Infeasible height and an infeasible marker.
func MinHeight(width float64, d []geometry.Rectangle) (float64, *cuttree.Node) {
	s := newSearch(context.Background(), options{checkpoint: defaultCheckpointInterval})
	o := s.minHeight(width, d, geometry.Position{})
	return o.height, o.tree
}

// Solve validates the input and searches for an optimal layout. An
// infeasible problem returns the result together with ErrInfeasible.
func (m *Solver) Solve(ctx context.Context, width float64, pieces []geometry.Rectangle) (Result, error) {
	if !(width > 0) || math.IsInf(width, 1) {
		return Result{}, fmt.Errorf("%w, got %v", ErrInvalidWidth, width)
	}
	if len(pieces) == 0 {
		return Result{}, ErrNoPieces
	}
	area := 0.0
	for i, p := range pieces {
		if p.IsZero() {
			return Result{}, fmt.Errorf("piece %d: %w", i, geometry.ErrInvalidDimensions)
		}
		area += p.Area()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("search not started: %w", err)
	}

	s := newSearch(ctx, m.opts)
	o := s.minHeight(width, pieces, geometry.Position{})
	if s.cancelled {
		return Result{}, fmt.Errorf("search interrupted after %d subproblems: %w", s.stats.Subproblems, ctx.Err())
	}
	if m.opts.observer != nil {
		m.opts.observer(s.stats)
	}

	res := Result{
		Width:     width,
		Height:    o.height,
		Tree:      o.tree,
		PieceArea: area,
		Stats:     s.stats,
	}
	if !o.ok {
		return res, ErrInfeasible
	}
	return res, nil
}

type search struct {
	ctx       context.Context
	opts      options
	stats     Stats
	cancelled bool
}

func newSearch(ctx context.Context, opts options) *search {
	return &search{ctx: ctx, opts: opts}
}

// tick counts a subproblem and reports whether the search must stop.
func (s *search) tick() bool {
	s.stats.Subproblems++
	if s.cancelled {
		return true
	}
	if s.stats.Subproblems%s.opts.checkpoint != 0 {
		return false
	}
	if s.ctx.Err() != nil {
		s.cancelled = true
		return true
	}
	if s.opts.observer != nil {
		s.opts.observer(s.stats)
	}
	return false
}

// outcome is the best layout found for one region. ok is false when the
// region cannot hold its pieces; height is then Infeasible.
type outcome struct {
	height float64
	tree   *cuttree.Node
	ok     bool
}

func infeasible(origin geometry.Position) outcome {
	return outcome{height: Infeasible, tree: cuttree.Infeasible(origin)}
}

// beats reports whether o is strictly better than best. Any feasible layout
// beats an infeasible one whatever its height.
func (o outcome) beats(best outcome) bool {
	if o.ok != best.ok {
		return o.ok
	}
	return o.height < best.height
}

func (s *search) minHeight(width float64, d []geometry.Rectangle, origin geometry.Position) outcome {
	if s.tick() {
		return infeasible(origin)
	}

	minSide := 0.0
	for _, r := range d {
		minSide = max(minSide, r.Height())
	}
	if minSide > width {
		return infeasible(origin)
	}

	if len(d) == 1 {
		r := d[0]
		if r.Width() <= width {
			return outcome{height: r.Height(), tree: cuttree.NewLeaf(r, origin, false), ok: true}
		}
		return outcome{height: r.Width(), tree: cuttree.NewLeaf(r, origin, true), ok: true}
	}

	vertical := s.vertical(width, d, origin)
	horizontal := s.horizontal(width, d, origin)
	if s.opts.tieBreak == PreferHorizontal {
		if vertical.beats(horizontal) {
			return vertical
		}
		return horizontal
	}
	if horizontal.beats(vertical) {
		return horizontal
	}
	return vertical
}

// vertical places the first half left of a cut at z and the second half
// to its right; the taller side decides the height.
func (s *search) vertical(width float64, d []geometry.Rectangle, origin geometry.Position) outcome {
	best, found := infeasible(origin), false
	for d1, d2 := range geometry.Partitions(d) {
		s.stats.Partitions++
		for z := 0; z <= int(width/2); z++ {
			offset := float64(z)
			left := s.minHeight(offset, d1, origin)
			right := s.minHeight(width-offset, d2, origin.Add(geometry.Position{X: offset}))
			c := outcome{height: Infeasible, ok: left.ok && right.ok}
			if c.ok {
				c.height = max(left.height, right.height)
			}
			if !found || c.beats(best) {
				c.tree = cuttree.NewSplit(-offset, origin, left.tree, right.tree)
				best, found = c, true
			}
		}
	}
	return best
}

// horizontal stacks the second half on top of the first, both spanning
// the full width.
func (s *search) horizontal(width float64, d []geometry.Rectangle, origin geometry.Position) outcome {
	best, found := infeasible(origin), false
	for d1, d2 := range geometry.Partitions(d) {
		s.stats.Partitions++
		bottom := s.minHeight(width, d1, origin)
		top := s.minHeight(width, d2, origin.Add(geometry.Position{Y: bottom.height}))
		c := outcome{height: Infeasible, ok: bottom.ok && top.ok}
		if c.ok {
			c.height = bottom.height + top.height
		}
		if !found || c.beats(best) {
			c.tree = cuttree.NewSplit(bottom.height, origin, bottom.tree, top.tree)
			best, found = c, true
		}
	}
	return best
}
