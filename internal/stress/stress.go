package stress

import (
	"gonum.org/v1/gonum/floats"

	"aethelgard/internal/grid"
	"aethelgard/internal/ops"
	"aethelgard/internal/physics"
)

// Calculator derives the stress-energy source terms feeding the metric
// update. It holds no mutable state: every method is a pure function of
// its inputs, the grid spacing and the frozen constants.
type Calculator struct {
	spec    grid.Spec
	consts  physics.Constants
	backend ops.Backend
}

func NewCalculator(spec grid.Spec, consts physics.Constants, backend ops.Backend) *Calculator {
	return &Calculator{spec: spec, consts: consts, backend: backend}
}

// QuantumPressure is the repulsive stress term derived from the entropy
// field: (hbar*c / spacing^4) * laplacian(entropy). Zero or spatially
// uniform entropy yields an all-zero result, edges included, because the
// boundary policy of the Laplacian vanishes on uniform fields. Small
// spacing with large curvature produces large magnitudes by design;
// spacing appears to the fourth power here.
func (c *Calculator) QuantumPressure(entropy *grid.ScalarField) *grid.ScalarField {
	lap := c.backend.Laplacian(c.spec, entropy)
	dx := c.spec.Spacing()
	floats.Scale(c.consts.Hbar*c.consts.C/(dx*dx*dx*dx), lap.Data())
	return lap
}

// Classical is the mass-sourced stress, mass * c^2 elementwise, written
// into a fresh field so the caller's array is never mutated.
func (c *Calculator) Classical(mass *grid.ScalarField) *grid.ScalarField {
	out := mass.Clone()
	floats.Scale(c.consts.C*c.consts.C, out.Data())
	return out
}

// Total is classical stress minus quantum pressure. The quantum term
// enters as a subtraction: that sign is the repulsive correction and
// must never be folded into another convention.
func (c *Calculator) Total(mass, entropy *grid.ScalarField) *grid.ScalarField {
	total := c.Classical(mass)
	quantum := c.QuantumPressure(entropy)
	floats.Sub(total.Data(), quantum.Data())
	return total
}
