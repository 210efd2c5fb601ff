// Package catalog keeps the piece types of a cutting job and expands them
// into the multiset consumed by the minimizer.
package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/eugenenazirov/strip-cutter/internal/geometry"
)

// DefaultMaxPieces bounds the expanded multiset; the search is exponential.
const DefaultMaxPieces = 6

var (
	// ErrInvalidPiece indicates a piece with non-positive dimensions or count.
	ErrInvalidPiece = errors.New("piece must have positive dimensions and count")
	// ErrTooManyPieces indicates the expanded multiset exceeds the configured limit.
	ErrTooManyPieces = errors.New("too many pieces for an exhaustive search")
)

// Piece describes one piece type and how many copies are needed.
type Piece struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Count  int     `yaml:"count"`
}

type entry struct {
	name  string
	rect  geometry.Rectangle
	count int
}

// Catalog holds piece types in declaration order.
type Catalog struct {
	entries   []entry
	total     int
	maxPieces int
}

// New creates an empty catalog accepting at most maxPieces copies in total.
// A non-positive limit selects DefaultMaxPieces.
func New(maxPieces int) *Catalog {
	if maxPieces <= 0 {
		maxPieces = DefaultMaxPieces
	}
	return &Catalog{maxPieces: maxPieces}
}

// FromPieces builds a catalog holding every piece.
func FromPieces(maxPieces int, pieces []Piece) (*Catalog, error) {
	c := New(maxPieces)
	for i, p := range pieces {
		if err := c.Add(p); err != nil {
			return nil, fmt.Errorf("piece %d: %w", i+1, err)
		}
	}
	return c, nil
}

// Add validates and stores a piece type. Pieces without a name are named
// after their position in the catalog.
func (c *Catalog) Add(p Piece) error {
	if p.Count <= 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidPiece, p.Count)
	}
	r, err := geometry.NewRectangle(p.Width, p.Height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPiece, err)
	}
	if p.Count > c.maxPieces-c.total {
		return fmt.Errorf("%w: %d more requested with %d held, limit is %d", ErrTooManyPieces, p.Count, c.total, c.maxPieces)
	}

	name := p.Name
	if name == "" {
		name = "piece-" + strconv.Itoa(len(c.entries)+1)
	}
	c.entries = append(c.entries, entry{name: name, rect: r, count: p.Count})
	c.total += p.Count
	return nil
}

// Len returns the number of copies across all piece types.
func (c *Catalog) Len() int { return c.total }

// Pieces returns the stored piece types with canonical dimensions.
func (c *Catalog) Pieces() []Piece {
	out := make([]Piece, len(c.entries))
	for i, e := range c.entries {
		out[i] = Piece{Name: e.name, Width: e.rect.Width(), Height: e.rect.Height(), Count: e.count}
	}
	return out
}

// Multiset expands the catalog. Copies of one piece type are the same
// individual.
func (c *Catalog) Multiset() []geometry.Rectangle {
	out := make([]geometry.Rectangle, 0, c.total)
	for _, e := range c.entries {
		out = append(out, e.rect.Replicate(e.count)...)
	}
	return out
}

// Name returns the name of the piece type with the given identity.
func (c *Catalog) Name(id uuid.UUID) (string, bool) {
	for _, e := range c.entries {
		if e.rect.ID() == id {
			return e.name, true
		}
	}
	return "", false
}
