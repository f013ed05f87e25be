package solver

import (
	"fmt"
	"math"

	"aethelgard/internal/grid"
	"aethelgard/internal/ops"
)

// WaveSource models an entropy wave traveling along the x axis:
// amplitude * (1 + 0.5*sin(k*x - omega*t)) with k = 2*pi/wavelength and
// omega = k*velocity.
func WaveSource(spec grid.Spec, amplitude, wavelength, velocity float64) EntropySource {
	if wavelength <= 0 {
		wavelength = spec.DomainLength()
	}
	k := 2 * math.Pi / wavelength
	omega := k * velocity
	return func(t float64) (*grid.ScalarField, error) {
		out := grid.NewScalarField(spec)
		n := spec.Size()
		for i := 0; i < n; i++ {
			v := amplitude * (1 + 0.5*math.Sin(k*spec.Coordinate(i)-omega*t))
			for j := 0; j < n; j++ {
				for kk := 0; kk < n; kk++ {
					out.Set(i, j, kk, v)
				}
			}
		}
		return out, nil
	}
}

// CollapseSource models entropy concentrating at the domain center as a
// configuration collapses: the base level grows with time while the core
// width shrinks by shrinkRate per unit time. Once the width reaches zero
// the configuration is fully collapsed and the source reports an error,
// which the controller surfaces as a computation failure.
func CollapseSource(spec grid.Spec, base, width, shrinkRate float64) EntropySource {
	center := spec.DomainLength() / 2
	return func(t float64) (*grid.ScalarField, error) {
		w := width - shrinkRate*t
		if w <= 0 {
			return nil, fmt.Errorf("core width exhausted at t=%g", t)
		}
		level := base * (1 + 0.5*t)
		out := grid.NewScalarField(spec)
		n := spec.Size()
		for i := 0; i < n; i++ {
			dx := spec.Coordinate(i) - center
			for j := 0; j < n; j++ {
				dy := spec.Coordinate(j) - center
				for k := 0; k < n; k++ {
					dz := spec.Coordinate(k) - center
					r2 := dx*dx + dy*dy + dz*dz
					out.Set(i, j, k, math.Abs(level*math.Exp(-r2/w)))
				}
			}
		}
		return out, nil
	}
}

// DiffusionSource evolves an initial entropy field by discrete diffusion
// dS/dt = coeff * laplacian(S), advancing by the time elapsed since the
// previous sample and clamping the field positive. The source keeps its
// own copy of the initial field.
func DiffusionSource(spec grid.Spec, initial *grid.ScalarField, coeff float64, backend ops.Backend) EntropySource {
	current := initial.Clone()
	last := math.NaN()
	return func(t float64) (*grid.ScalarField, error) {
		if !math.IsNaN(last) && t > last {
			dt := t - last
			lap := backend.Laplacian(spec, current)
			data := current.Data()
			for c, l := range lap.Data() {
				data[c] = math.Abs(data[c] + dt*coeff*l)
			}
		}
		last = t
		return current.Clone(), nil
	}
}
