package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRectangle_Normalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		a, b       float64
		wantWidth  float64
		wantHeight float64
	}{
		{name: "AlreadyCanonical", a: 4, b: 2, wantWidth: 4, wantHeight: 2},
		{name: "Swapped", a: 2, b: 4, wantWidth: 4, wantHeight: 2},
		{name: "Square", a: 3, b: 3, wantWidth: 3, wantHeight: 3},
		{name: "Fractional", a: 0.5, b: 1.25, wantWidth: 1.25, wantHeight: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewRectangle(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.wantWidth, r.Width())
			assert.Equal(t, tc.wantHeight, r.Height())
			assert.False(t, r.IsZero())
		})
	}
}

func TestNewRectangle_RejectsInvalidSides(t *testing.T) {
	t.Parallel()

	cases := [][2]float64{
		{0, 1},
		{1, 0},
		{-2, 3},
		{3, -2},
		{math.NaN(), 1},
		{math.Inf(1), 1},
	}
	for _, c := range cases {
		_, err := NewRectangle(c[0], c[1])
		assert.True(t, errors.Is(err, ErrInvalidDimensions), "expected ErrInvalidDimensions for %v", c)
	}
}

func TestMustRectangle_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustRectangle(0, 1) })
	assert.NotPanics(t, func() { MustRectangle(1, 1) })
}

func TestRectangle_IdentityIsPerConstruction(t *testing.T) {
	t.Parallel()

	a := MustRectangle(4, 2)
	b := MustRectangle(4, 2)

	assert.False(t, SameIdentity(a, b), "separately constructed rectangles are distinct")
	assert.True(t, SameDimensions(a, b))
	assert.True(t, SameIdentity(a, a))
}

func TestRectangle_Replicate(t *testing.T) {
	t.Parallel()

	r := MustRectangle(4, 2)
	copies := r.Replicate(3)
	require.Len(t, copies, 3)
	for _, c := range copies {
		assert.True(t, SameIdentity(r, c))
		assert.Equal(t, r.ID(), c.ID())
	}

	assert.Empty(t, r.Replicate(0))
	assert.Empty(t, r.Replicate(-1))
}

func TestRectangle_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(4 x 2)", MustRectangle(2, 4).String())
	assert.Equal(t, "(1.5 x 0.5)", MustRectangle(0.5, 1.5).String())
	assert.Equal(t, 8.0, MustRectangle(2, 4).Area())
}

func TestPosition_Add(t *testing.T) {
	t.Parallel()

	p := Position{X: 1, Y: 2}.Add(Position{X: 3, Y: -0.5})
	assert.Equal(t, Position{X: 4, Y: 1.5}, p)
	assert.Equal(t, "(4, 1.5)", p.String())
}
