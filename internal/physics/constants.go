package physics

import "math"

// Constants is the frozen set of physical constants used by a solver
// instance. Each instance carries its own copy so instances stay
// independently testable; nothing in the package mutates them after
// construction.
type Constants struct {
	G    float64 // gravitational constant, m^3 kg^-1 s^-2
	C    float64 // speed of light, m/s
	Hbar float64 // reduced Planck constant, J*s
}

// Default returns the reference SI values.
func Default() Constants {
	return Constants{
		G:    6.674e-11,
		C:    3.0e8,
		Hbar: 1.054e-34,
	}
}

// Coupling is the field-equation source coupling 8*pi*G/c^4.
func (c Constants) Coupling() float64 {
	c4 := c.C * c.C * c.C * c.C
	return 8 * math.Pi * c.G / c4
}

// CurvatureCoupling is the extrinsic-curvature forcing coefficient
// 4*pi*G/c^4.
func (c Constants) CurvatureCoupling() float64 {
	c4 := c.C * c.C * c.C * c.C
	return 4 * math.Pi * c.G / c4
}

// FluxAnomaly reports the predicted quantum flux shift for a point mass
// observed through a spherical shell of the given radius, together with
// the raw flux density on that shell.
func FluxAnomaly(mass, radius float64) (shift, density float64) {
	density = mass / (4 * math.Pi * radius * radius)
	shift = -math.Log1p(density)
	return shift, density
}
