package grid

// ScalarField is a dense 3-D field of reals stored flat in row-major
// [i][j][k] order. Solvers treat caller-supplied fields as read-only and
// clone before mutating.
type ScalarField struct {
	size int
	data []float64
}

func NewScalarField(spec Spec) *ScalarField {
	return &ScalarField{
		size: spec.Size(),
		data: make([]float64, spec.Cells()),
	}
}

// NewUniformField returns a field holding the same value everywhere.
func NewUniformField(spec Spec, value float64) *ScalarField {
	f := NewScalarField(spec)
	f.Fill(value)
	return f
}

func (f *ScalarField) Size() int { return f.size }

func (f *ScalarField) index(i, j, k int) int {
	return (i*f.size+j)*f.size + k
}

func (f *ScalarField) At(i, j, k int) float64 {
	return f.data[f.index(i, j, k)]
}

func (f *ScalarField) Set(i, j, k int, v float64) {
	f.data[f.index(i, j, k)] = v
}

// Data exposes the backing slice in row-major order. Mutating it mutates
// the field.
func (f *ScalarField) Data() []float64 { return f.data }

func (f *ScalarField) Fill(v float64) {
	for c := range f.data {
		f.data[c] = v
	}
}

func (f *ScalarField) Clone() *ScalarField {
	out := &ScalarField{size: f.size, data: make([]float64, len(f.data))}
	copy(out.data, f.data)
	return out
}

// Matches reports whether the field shape equals (size,size,size) for
// the given spec.
func (f *ScalarField) Matches(spec Spec) bool {
	return f != nil && f.size == spec.Size() && len(f.data) == spec.Cells()
}
