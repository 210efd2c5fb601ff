package geometry

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// Rectangle is an immutable piece with canonical dimensions (Width >= Height).
//
// Every constructed rectangle is a distinct individual carrying its own
// identity token, even when its dimensions match another rectangle. Copies
// produced by Replicate share the token of the original.
type Rectangle struct {
	id     uuid.UUID
	width  float64
	height float64
}

// NewRectangle creates a rectangle from two side lengths in any order.
func NewRectangle(a, b float64) (Rectangle, error) {
	if !validSide(a) || !validSide(b) {
		return Rectangle{}, fmt.Errorf("%w: got %v x %v", ErrInvalidDimensions, a, b)
	}
	if b > a {
		a, b = b, a
	}
	return Rectangle{id: uuid.New(), width: a, height: b}, nil
}

// MustRectangle is like NewRectangle but panics on invalid dimensions.
func MustRectangle(a, b float64) Rectangle {
	r, err := NewRectangle(a, b)
	if err != nil {
		panic(err)
	}
	return r
}

func validSide(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ID returns the identity token of the rectangle.
func (r Rectangle) ID() uuid.UUID { return r.id }

// Width returns the longer side.
func (r Rectangle) Width() float64 { return r.width }

// Height returns the shorter side.
func (r Rectangle) Height() float64 { return r.height }

// Area returns Width * Height.
func (r Rectangle) Area() float64 { return r.width * r.height }

// IsZero reports whether r is the zero value rather than a constructed rectangle.
func (r Rectangle) IsZero() bool { return r.id == uuid.Nil }

// Replicate returns n references to the same individual.
func (r Rectangle) Replicate(n int) []Rectangle {
	if n <= 0 {
		return []Rectangle{}
	}
	out := make([]Rectangle, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%s x %s)", FormatLength(r.width), FormatLength(r.height))
}

// FormatLength renders a length without trailing zeros.
func FormatLength(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
