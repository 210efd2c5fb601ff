package geometry

import "errors"

// ErrInvalidDimensions is returned when a rectangle side is not a positive finite number.
var ErrInvalidDimensions = errors.New("rectangle dimensions must be positive finite numbers")
