package cuttree

import "github.com/eugenenazirov/strip-cutter/internal/geometry"

// Placement is a piece at an absolute position in the strip.
type Placement struct {
	Piece   geometry.Rectangle
	Origin  geometry.Position
	Width   float64
	Height  float64
	Rotated bool
}

// Placements flattens the leaves of the tree into absolute placements.
func (n *Node) Placements() []Placement {
	var out []Placement
	n.walk(func(leaf *Node) {
		p := Placement{
			Piece:   leaf.Piece,
			Origin:  leaf.Origin,
			Width:   leaf.Piece.Width(),
			Height:  leaf.Piece.Height(),
			Rotated: leaf.Rotated(),
		}
		if p.Rotated {
			p.Width, p.Height = p.Height, p.Width
		}
		out = append(out, p)
	})
	return out
}

// Overlaps reports whether the interiors of p and o intersect.
func (p Placement) Overlaps(o Placement) bool {
	return p.Origin.X < o.Origin.X+o.Width && o.Origin.X < p.Origin.X+p.Width &&
		p.Origin.Y < o.Origin.Y+o.Height && o.Origin.Y < p.Origin.Y+p.Height
}
