package geometry

import "fmt"

// Position is the lower-left corner of a region inside the strip.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the component-wise sum of p and o.
func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%s, %s)", FormatLength(p.X), FormatLength(p.Y))
}
