package matrix

import "errors"

// Common sentinel errors for numeric operations
var (
	// ErrDimensionMismatch is returned when operand shapes are incompatible
	ErrDimensionMismatch = errors.New("matrix dimensions mismatch")

	// ErrNumericInstability is returned when a computation produces NaN or Inf
	ErrNumericInstability = errors.New("numeric instability detected")
)
