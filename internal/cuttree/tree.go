// Package cuttree models the binary decision tree produced by the strip
// minimizer: every internal node is a guillotine cut, every leaf a placed
// piece.
package cuttree

import (
	"math"

	"github.com/eugenenazirov/strip-cutter/internal/geometry"
)

// Kind distinguishes the node variants.
type Kind int

const (
	KindInfeasible Kind = iota // region that cannot hold its pieces at this width
	KindLeaf                   // single placed piece
	KindSplit                  // guillotine cut with two child regions
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindSplit:
		return "split"
	default:
		return "infeasible"
	}
}

// Node is one decision in the cut tree. Nodes are immutable once returned.
//
// For a split, Offset is negative for a vertical cut at |Offset| and positive
// for a horizontal cut at Offset; First is the left (bottom) region and
// Second the right (top) region. For a leaf, Marks holds two signed
// descriptors: the sign selects the label (negative "Vertical", positive
// "Horizontal"), the magnitude is a side of the piece.
type Node struct {
	Kind   Kind
	Origin geometry.Position
	Offset float64
	First  *Node
	Second *Node
	Piece  geometry.Rectangle
	Marks  [2]float64
}

// NewLeaf places piece at origin. An unrotated piece lies with its longer
// side along the strip width.
func NewLeaf(piece geometry.Rectangle, origin geometry.Position, rotated bool) *Node {
	marks := [2]float64{-piece.Width(), piece.Height()}
	if rotated {
		marks = [2]float64{piece.Height(), -piece.Width()}
	}
	return &Node{Kind: KindLeaf, Origin: origin, Piece: piece, Marks: marks}
}

// NewSplit records a cut at offset between first and second.
func NewSplit(offset float64, origin geometry.Position, first, second *Node) *Node {
	return &Node{Kind: KindSplit, Origin: origin, Offset: offset, First: first, Second: second}
}

// Infeasible returns the marker for a region that cannot be packed.
func Infeasible(origin geometry.Position) *Node {
	return &Node{Kind: KindInfeasible, Origin: origin}
}

// IsVertical reports whether a split node is a vertical cut. The sign bit
// decides, so a vertical cut at zero (Offset -0) stays vertical.
func (n *Node) IsVertical() bool { return n.Kind == KindSplit && math.Signbit(n.Offset) }

// Rotated reports whether a leaf piece was turned by 90 degrees.
func (n *Node) Rotated() bool { return n.Kind == KindLeaf && n.Marks[0] > 0 }

// Feasible reports whether the subtree contains no infeasible marker.
func (n *Node) Feasible() bool {
	switch {
	case n == nil:
		return false
	case n.Kind == KindLeaf:
		return true
	case n.Kind == KindSplit:
		return n.First.Feasible() && n.Second.Feasible()
	default:
		return false
	}
}

// Leaves returns the pieces of all leaves in left-to-right order.
func (n *Node) Leaves() []geometry.Rectangle {
	var out []geometry.Rectangle
	n.walk(func(leaf *Node) {
		out = append(out, leaf.Piece)
	})
	return out
}

// Depth returns the number of levels below and including n.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	if n.Kind != KindSplit {
		return 1
	}
	return 1 + max(n.First.Depth(), n.Second.Depth())
}

func (n *Node) walk(visit func(*Node)) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindLeaf:
		visit(n)
	case KindSplit:
		n.First.walk(visit)
		n.Second.walk(visit)
	}
}
