package minimizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/eugenenazirov/strip-cutter/internal/cuttree"
	"github.com/eugenenazirov/strip-cutter/internal/geometry"
)

// Infeasible is the height reported for a region that cannot hold its pieces.
// It is only a marker: the search tracks feasibility separately, so real
// heights above it still compare correctly.
const Infeasible = 100000.0

// Minimizer describes the behaviour required from a strip minimizer.
type Minimizer interface {
	Solve(ctx context.Context, width float64, pieces []geometry.Rectangle) (Result, error)
}

// TieBreak selects the winner when the best vertical-first and the best
// horizontal-first layouts have the same height.
type TieBreak int

const (
	// PreferVertical keeps the vertical-first layout on equal heights. This
	// differs from cutters that switch to a vertical layout only on strict
	// improvement; use PreferHorizontal to match their output trees. The
	// minimal height is the same either way.
	PreferVertical TieBreak = iota
	// PreferHorizontal keeps the horizontal-first layout unless the vertical
	// one is strictly lower.
	PreferHorizontal
)

func (t TieBreak) String() string {
	if t == PreferHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseTieBreak converts a configuration value into a TieBreak.
func ParseTieBreak(raw string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "vertical":
		return PreferVertical, nil
	case "horizontal":
		return PreferHorizontal, nil
	default:
		return PreferVertical, fmt.Errorf("%w, got %q", ErrUnknownTieBreak, raw)
	}
}

// Stats counts the work done by one search.
type Stats struct {
	Subproblems int64
	Partitions  int64
}

// Result is the outcome of a search.
type Result struct {
	Width     float64
	Height    float64
	Tree      *cuttree.Node
	PieceArea float64
	Stats     Stats
}

// Feasible reports whether the layout holds every piece.
func (r Result) Feasible() bool {
	return r.Tree.Feasible()
}

// Utilisation returns the share of the strip area covered by pieces.
func (r Result) Utilisation() float64 {
	if !r.Feasible() || r.Width*r.Height == 0 {
		return 0
	}
	return r.PieceArea / (r.Width * r.Height)
}
