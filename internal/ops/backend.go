package ops

import (
	"runtime"

	"aethelgard/internal/grid"
)

// Backend evaluates the discrete differential operators over a grid.
// Implementations must agree cell-for-cell: the parallel backend changes
// scheduling only, never arithmetic, so its outputs stay bit-comparable
// with the serial reference.
type Backend interface {
	Name() string
	// Gradient returns the central-difference first derivative along
	// each axis, with clamped one-sided differences at edge cells.
	Gradient(spec grid.Spec, f *grid.ScalarField) (gx, gy, gz *grid.ScalarField)
	// Laplacian sums the 3-point second difference over the three axes,
	// using a one-sided 3-point second difference at edge cells so that
	// spatially uniform fields yield exactly zero everywhere.
	Laplacian(spec grid.Spec, f *grid.ScalarField) *grid.ScalarField
}

// Select picks the compute backend. When acceleration is requested but
// only one CPU is available the serial path is returned, keeping the
// fallback transparent to callers.
func Select(accelerated bool) Backend {
	if accelerated {
		if w := runtime.NumCPU(); w > 1 {
			return &ParallelBackend{workers: w}
		}
	}
	return SerialBackend{}
}
