package ops

import "aethelgard/internal/grid"

// SerialBackend is the sequential reference implementation.
type SerialBackend struct{}

func (SerialBackend) Name() string { return "serial" }

func (SerialBackend) Gradient(spec grid.Spec, f *grid.ScalarField) (gx, gy, gz *grid.ScalarField) {
	gx = grid.NewScalarField(spec)
	gy = grid.NewScalarField(spec)
	gz = grid.NewScalarField(spec)
	for i := 0; i < spec.Size(); i++ {
		gradientRow(spec, f, gx, gy, gz, i)
	}
	return gx, gy, gz
}

func (SerialBackend) Laplacian(spec grid.Spec, f *grid.ScalarField) *grid.ScalarField {
	out := grid.NewScalarField(spec)
	for i := 0; i < spec.Size(); i++ {
		laplacianRow(spec, f, out, i)
	}
	return out
}
