package guard

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy for the solver surface. ErrResourceLimit wraps
// ErrValidation, so callers that only care about "bad input" can match
// both with a single errors.Is check, while callers that want to
// distinguish "input too large" can test for ErrResourceLimit first.
var (
	ErrValidation    = errors.New("invalid parameter")
	ErrResourceLimit = fmt.Errorf("%w: resource limit exceeded", ErrValidation)
	ErrComputation   = errors.New("computation failed")
)

// Limits bounds every parameter that scales allocation or run time. The
// metric tensor array is 16x the cell count, so the grid-size ceiling is
// the one that dominates memory. Checks run at every public entry point
// that accepts one of these parameters, not only at construction.
type Limits struct {
	MaxGridSize   int
	MaxIterations int
	MaxSteps      int
	MaxTimeStep   float64
}

// DefaultLimits returns the standard resource ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxGridSize:   256,
		MaxIterations: 10000,
		MaxSteps:      5000,
		MaxTimeStep:   1000.0,
	}
}

func (l Limits) CheckGridSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: grid size must be a positive integer, got %d", ErrValidation, size)
	}
	if size > l.MaxGridSize {
		return fmt.Errorf("%w: grid size %d above ceiling %d", ErrResourceLimit, size, l.MaxGridSize)
	}
	return nil
}

func (l Limits) CheckDomainLength(length float64) error {
	if math.IsNaN(length) || length <= 0 {
		return fmt.Errorf("%w: domain length must be a positive number, got %v", ErrValidation, length)
	}
	return nil
}

func (l Limits) CheckIterations(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: iteration count must be a positive integer, got %d", ErrValidation, n)
	}
	if n > l.MaxIterations {
		return fmt.Errorf("%w: iteration count %d above ceiling %d", ErrResourceLimit, n, l.MaxIterations)
	}
	return nil
}

func (l Limits) CheckSteps(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: step count must be a positive integer, got %d", ErrValidation, n)
	}
	if n > l.MaxSteps {
		return fmt.Errorf("%w: step count %d above ceiling %d", ErrResourceLimit, n, l.MaxSteps)
	}
	return nil
}

// CheckTimeStep rejects non-positive steps and steps large enough to be
// numerically unstable. The upper bound is a stability guard rather than
// an allocation guard, so it reports plain ErrValidation.
func (l Limits) CheckTimeStep(dt float64) error {
	if math.IsNaN(dt) || dt <= 0 {
		return fmt.Errorf("%w: time step must be a positive number, got %v", ErrValidation, dt)
	}
	if dt > l.MaxTimeStep {
		return fmt.Errorf("%w: time step %v above stability ceiling %v", ErrValidation, dt, l.MaxTimeStep)
	}
	return nil
}
