package trajcost

import (
	"errors"
	"fmt"
)

// Domain errors for cost evaluation.
var (
	// ErrDimension indicates a vector or matrix whose size does not match
	// the dimensions fixed at construction.
	ErrDimension = errors.New("trajcost: dimension mismatch")

	// ErrNonFinite indicates an evaluation produced NaN or Inf. Advisory:
	// the data fields still hold what was computed, and regularization or
	// retry is the solver's call.
	ErrNonFinite = errors.New("trajcost: non-finite value in evaluation")
)

// DimensionError wraps ErrDimension with the offending field and sizes.
type DimensionError struct {
	Field string
	Got   int
	Want  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("trajcost: %s has dimension %d, want %d", e.Field, e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimension
}
