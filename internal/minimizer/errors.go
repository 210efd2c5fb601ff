package minimizer

import "errors"

var (
	// ErrInvalidWidth is returned when the strip width is not a positive finite number.
	ErrInvalidWidth = errors.New("strip width must be a positive finite number")
	// ErrNoPieces is returned when there is nothing to pack.
	ErrNoPieces = errors.New("at least one piece is required")
	// ErrInfeasible is returned when some piece is wider than the strip in both orientations.
	ErrInfeasible = errors.New("pieces cannot be packed into a strip of this width")
	// ErrUnknownTieBreak is returned when a tie-break name is not recognised.
	ErrUnknownTieBreak = errors.New("tie-break must be \"vertical\" or \"horizontal\"")
)
