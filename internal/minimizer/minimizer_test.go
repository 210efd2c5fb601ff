package minimizer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/strip-cutter/internal/cuttree"
	"github.com/eugenenazirov/strip-cutter/internal/geometry"
)

func rect(a, b float64) geometry.Rectangle { return geometry.MustRectangle(a, b) }

func TestMinHeight_SinglePiece(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		a, b, width float64
		wantHeight  float64
		wantKind    cuttree.Kind
		wantRotated bool
	}{
		{name: "ExactFit", a: 4, b: 2, width: 4, wantHeight: 2, wantKind: cuttree.KindLeaf},
		{name: "WiderStrip", a: 4, b: 2, width: 10, wantHeight: 2, wantKind: cuttree.KindLeaf},
		{name: "Rotated", a: 4, b: 2, width: 3, wantHeight: 4, wantKind: cuttree.KindLeaf, wantRotated: true},
		{name: "RotatedExactFit", a: 4, b: 2, width: 2, wantHeight: 4, wantKind: cuttree.KindLeaf, wantRotated: true},
		{name: "TooNarrow", a: 4, b: 2, width: 1, wantHeight: Infeasible, wantKind: cuttree.KindInfeasible},
		{name: "HalfUnitStrip", a: 1, b: 1, width: 0.5, wantHeight: Infeasible, wantKind: cuttree.KindInfeasible},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			piece := rect(tc.a, tc.b)
			height, tree := MinHeight(tc.width, []geometry.Rectangle{piece})
			assert.Equal(t, tc.wantHeight, height)
			require.NotNil(t, tree)
			assert.Equal(t, tc.wantKind, tree.Kind)
			assert.Equal(t, tc.wantRotated, tree.Rotated())
		})
	}
}

func TestMinHeight_LeafEncoding(t *testing.T) {
	t.Parallel()

	_, flat := MinHeight(4, []geometry.Rectangle{rect(4, 2)})
	assert.Equal(t, [2]float64{-4, 2}, flat.Marks)

	_, turned := MinHeight(3, []geometry.Rectangle{rect(4, 2)})
	assert.Equal(t, [2]float64{2, -4}, turned.Marks)
}

func TestMinHeight_TwoPiecesNarrowStrip(t *testing.T) {
	t.Parallel()

	pieces := rect(4, 2).Replicate(2)

	height, tree := MinHeight(4, pieces)
	assert.Equal(t, 4.0, height)
	require.Equal(t, cuttree.KindSplit, tree.Kind)
	// vertical wins the tie: two rotated pieces side by side
	assert.Equal(t, -2.0, tree.Offset)
	assert.True(t, tree.First.Rotated())
	assert.True(t, tree.Second.Rotated())
	assert.Equal(t, geometry.Position{X: 2}, tree.Second.Origin)
}

func TestMinHeight_TwoPiecesWideStrip(t *testing.T) {
	t.Parallel()

	pieces := rect(4, 2).Replicate(2)

	height, tree := MinHeight(8, pieces)
	assert.Equal(t, 2.0, height)
	require.Equal(t, cuttree.KindSplit, tree.Kind)
	assert.True(t, tree.IsVertical())
	assert.Equal(t, -4.0, tree.Offset)
	assert.False(t, tree.First.Rotated())
	assert.False(t, tree.Second.Rotated())
	assert.Equal(t, geometry.Position{X: 4}, tree.Second.Origin)
}

func TestSolve_HorizontalTieBreak(t *testing.T) {
	t.Parallel()

	pieces := rect(4, 2).Replicate(2)

	res, err := New(WithTieBreak(PreferHorizontal)).Solve(context.Background(), 4, pieces)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res.Height)
	require.Equal(t, cuttree.KindSplit, res.Tree.Kind)
	// stacked: bottom piece of height 2, the second one on top of it
	assert.Equal(t, 2.0, res.Tree.Offset)
	assert.False(t, res.Tree.First.Rotated())
	assert.False(t, res.Tree.Second.Rotated())
	assert.Equal(t, geometry.Position{Y: 2}, res.Tree.Second.Origin)
	assert.Equal(t, 1.0, res.Utilisation())
}

func TestMinHeight_HeightAboveInfeasibleMarker(t *testing.T) {
	t.Parallel()

	// only stacking fits: each piece turned upright is 60000 high
	pieces := rect(60000, 1).Replicate(2)

	height, tree := MinHeight(1, pieces)
	assert.Equal(t, 120000.0, height)
	require.Equal(t, cuttree.KindSplit, tree.Kind)
	assert.False(t, tree.IsVertical())
	assert.True(t, tree.Feasible())
	assert.Len(t, tree.Leaves(), 2)

	res, err := New().Solve(context.Background(), 1, pieces)
	require.NoError(t, err)
	assert.Equal(t, 120000.0, res.Height)
	assert.True(t, res.Feasible())
}

func TestSolve_WideStripAboveInfeasibleMarker(t *testing.T) {
	t.Parallel()

	res, err := New().Solve(context.Background(), 2*Infeasible, []geometry.Rectangle{rect(3, 1)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Height)
}

func TestVertical_KeepsDirectionOfCutAtZero(t *testing.T) {
	t.Parallel()

	// no vertical cut of a 3-wide strip holds both pieces; the first
	// candidate, the cut at zero, is kept
	s := newSearch(context.Background(), options{checkpoint: defaultCheckpointInterval})
	got := s.vertical(3, []geometry.Rectangle{rect(3, 1), rect(3, 3)}, geometry.Position{})
	assert.False(t, got.ok)
	assert.Equal(t, Infeasible, got.height)
	require.Equal(t, cuttree.KindSplit, got.tree.Kind)
	assert.True(t, math.Signbit(got.tree.Offset))
	assert.True(t, got.tree.IsVertical())
	assert.Contains(t, got.tree.String(), "Vertical cut at 0\n      Left part:")
}

func TestMinHeight_MixedPieces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		width  float64
		pieces []geometry.Rectangle
		want   float64
	}{
		{name: "SideBySide", width: 6, pieces: []geometry.Rectangle{rect(4, 2), rect(2, 2)}, want: 2},
		{name: "StackedStrips", width: 3, pieces: rect(3, 1).Replicate(3), want: 3},
		{name: "NestedCut", width: 4, pieces: []geometry.Rectangle{rect(4, 2), rect(2, 2), rect(2, 2)}, want: 4},
		{name: "RotateToFit", width: 2, pieces: []geometry.Rectangle{rect(3, 2), rect(1, 1)}, want: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			height, tree := MinHeight(tc.width, tc.pieces)
			assert.Equal(t, tc.want, height)
			assert.True(t, tree.Feasible())
		})
	}
}

func propertyInputs() [][]geometry.Rectangle {
	return [][]geometry.Rectangle{
		{rect(3, 2), rect(2, 1), rect(2, 2)},
		append(rect(4, 2).Replicate(2), rect(1, 1)),
		{rect(5, 1), rect(3, 3), rect(2, 1), rect(1, 1)},
		append(rect(2, 1).Replicate(3), rect(3, 2)),
	}
}

func TestMinHeight_LeavesMatchInput(t *testing.T) {
	t.Parallel()

	for i, pieces := range propertyInputs() {
		for _, width := range []float64{3, 4, 6} {
			height, tree := MinHeight(width, pieces)
			require.Less(t, height, Infeasible, "input %d width %v", i, width)

			leaves := tree.Leaves()
			assert.Len(t, leaves, len(pieces), "input %d width %v", i, width)
			assert.Empty(t, geometry.Complement(pieces, leaves, geometry.SameIdentity))
			assert.Empty(t, geometry.Complement(leaves, pieces, geometry.SameIdentity))
		}
	}
}

func TestMinHeight_PlacementsFitStrip(t *testing.T) {
	t.Parallel()

	for i, pieces := range propertyInputs() {
		for _, width := range []float64{3, 5, 7} {
			height, tree := MinHeight(width, pieces)
			placements := tree.Placements()
			require.Len(t, placements, len(pieces))

			for j, p := range placements {
				assert.GreaterOrEqual(t, p.Origin.X, 0.0)
				assert.GreaterOrEqual(t, p.Origin.Y, 0.0)
				assert.LessOrEqual(t, p.Origin.X+p.Width, width, "input %d width %v placement %d", i, width, j)
				assert.LessOrEqual(t, p.Origin.Y+p.Height, height, "input %d width %v placement %d", i, width, j)
				for k := j + 1; k < len(placements); k++ {
					assert.False(t, p.Overlaps(placements[k]), "input %d width %v: placements %d and %d overlap", i, width, j, k)
				}
			}
		}
	}
}

func TestMinHeight_MonotoneInWidth(t *testing.T) {
	t.Parallel()

	for i, pieces := range propertyInputs() {
		prev := math.Inf(1)
		for width := 3.0; width <= 8; width++ {
			height, _ := MinHeight(width, pieces)
			assert.LessOrEqual(t, height, prev, "input %d width %v", i, width)
			prev = height
		}
	}
}

func TestMinHeight_AreaLowerBound(t *testing.T) {
	t.Parallel()

	for i, pieces := range propertyInputs() {
		area := 0.0
		for _, p := range pieces {
			area += p.Area()
		}
		for _, width := range []float64{3, 4, 5, 8} {
			height, _ := MinHeight(width, pieces)
			assert.GreaterOrEqual(t, height*width, area, "input %d width %v", i, width)
		}
	}
}

func TestMinHeight_FeasibilityFloor(t *testing.T) {
	t.Parallel()

	pieces := []geometry.Rectangle{rect(5, 1), rect(3, 3), rect(2, 1)}
	for _, width := range []float64{1, 2, 2.5} {
		height, tree := MinHeight(width, pieces)
		assert.Equal(t, Infeasible, height)
		assert.Equal(t, cuttree.KindInfeasible, tree.Kind)
	}
	height, _ := MinHeight(3, pieces)
	assert.Less(t, height, Infeasible)
}

func TestMinHeight_Deterministic(t *testing.T) {
	t.Parallel()

	pieces := []geometry.Rectangle{rect(5, 1), rect(3, 3), rect(2, 1), rect(1, 1)}
	h1, t1 := MinHeight(6, pieces)
	h2, t2 := MinHeight(6, pieces)
	assert.Equal(t, h1, h2)
	assert.Equal(t, t1.String(), t2.String())
}

func TestSolve_ValidatesInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	solver := New()
	pieces := []geometry.Rectangle{rect(1, 1)}

	tests := []struct {
		name    string
		width   float64
		pieces  []geometry.Rectangle
		wantErr error
	}{
		{name: "ZeroWidth", width: 0, pieces: pieces, wantErr: ErrInvalidWidth},
		{name: "NegativeWidth", width: -3, pieces: pieces, wantErr: ErrInvalidWidth},
		{name: "NaNWidth", width: math.NaN(), pieces: pieces, wantErr: ErrInvalidWidth},
		{name: "InfiniteWidth", width: math.Inf(1), pieces: pieces, wantErr: ErrInvalidWidth},
		{name: "NoPieces", width: 4, pieces: nil, wantErr: ErrNoPieces},
		{name: "ZeroPiece", width: 4, pieces: []geometry.Rectangle{{}}, wantErr: geometry.ErrInvalidDimensions},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := solver.Solve(ctx, tc.width, tc.pieces)
			assert.True(t, errors.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
		})
	}
}

func TestSolve_Infeasible(t *testing.T) {
	t.Parallel()

	res, err := New().Solve(context.Background(), 0.5, []geometry.Rectangle{rect(1, 1)})
	require.ErrorIs(t, err, ErrInfeasible)
	assert.Equal(t, Infeasible, res.Height)
	assert.False(t, res.Feasible())
	assert.Zero(t, res.Utilisation())
}

func TestSolve_ReportsStats(t *testing.T) {
	t.Parallel()

	var calls []Stats
	solver := New(WithObserver(func(s Stats) { calls = append(calls, s) }), WithCheckpointInterval(10))

	res, err := solver.Solve(context.Background(), 8, rect(4, 2).Replicate(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Height)
	assert.Equal(t, 8.0, res.Width)
	assert.Equal(t, 16.0, res.PieceArea)
	assert.Equal(t, 1.0, res.Utilisation())

	// root + 2 partitions * 5 cut positions * 2 halves + 2 partitions * 2 halves
	assert.Equal(t, int64(25), res.Stats.Subproblems)
	assert.Equal(t, int64(4), res.Stats.Partitions)

	require.Len(t, calls, 3)
	assert.Equal(t, int64(10), calls[0].Subproblems)
	assert.Equal(t, int64(20), calls[1].Subproblems)
	assert.Equal(t, res.Stats, calls[2])
}

func TestSolve_Cancelled(t *testing.T) {
	t.Parallel()

	pieces := []geometry.Rectangle{rect(5, 1), rect(3, 3), rect(2, 1), rect(1, 1)}

	t.Run("BeforeStart", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New().Solve(ctx, 6, pieces)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("DuringSearch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		solver := New(WithCheckpointInterval(1), WithObserver(func(Stats) { cancel() }))
		_, err := solver.Solve(ctx, 6, pieces)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSolve_TieBreakKeepsHeight(t *testing.T) {
	t.Parallel()

	tied := rect(4, 2).Replicate(2)
	byDefault, err := New().Solve(context.Background(), 4, tied)
	require.NoError(t, err)
	stacked, err := New(WithTieBreak(PreferHorizontal)).Solve(context.Background(), 4, tied)
	require.NoError(t, err)
	assert.True(t, byDefault.Tree.IsVertical(), "default keeps the vertical layout on a tie")
	assert.False(t, stacked.Tree.IsVertical())
	assert.Equal(t, byDefault.Height, stacked.Height)

	for _, pieces := range propertyInputs() {
		for _, width := range []float64{3, 4, 6} {
			v, err := New(WithTieBreak(PreferVertical)).Solve(context.Background(), width, pieces)
			require.NoError(t, err)
			h, err := New(WithTieBreak(PreferHorizontal)).Solve(context.Background(), width, pieces)
			require.NoError(t, err)
			assert.Equal(t, v.Height, h.Height, "width %v", width)
		}
	}
}

func TestParseTieBreak(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]TieBreak{"": PreferVertical, "vertical": PreferVertical, " Horizontal ": PreferHorizontal} {
		got, err := ParseTieBreak(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseTieBreak("diagonal")
	assert.ErrorIs(t, err, ErrUnknownTieBreak)
	assert.Equal(t, "horizontal", PreferHorizontal.String())
}

func BenchmarkMinHeightFourPieces(b *testing.B) {
	pieces := []geometry.Rectangle{rect(5, 1), rect(3, 3), rect(2, 1), rect(1, 1)}
	for i := 0; i < b.N; i++ {
		MinHeight(6, pieces)
	}
}

func BenchmarkMinHeightFivePieces(b *testing.B) {
	pieces := append(rect(2, 1).Replicate(3), rect(3, 2), rect(4, 1))
	for i := 0; i < b.N; i++ {
		MinHeight(5, pieces)
	}
}
