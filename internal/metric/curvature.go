package metric

import "math"

const curvatureDim = 3

// Curvature is the per-cell 3x3 extrinsic-curvature tensor used only by
// the time-evolution controller. It starts at zero and tracks the rate
// of change of the spatial metric.
type Curvature struct {
	size int
	data []float64
}

func NewCurvature(size int) *Curvature {
	return &Curvature{
		size: size,
		data: make([]float64, size*size*size*curvatureDim*curvatureDim),
	}
}

func (c *Curvature) Size() int { return c.size }

func (c *Curvature) At(i, j, k, a, b int) float64 {
	cell := (i*c.size+j)*c.size + k
	return c.data[cell*curvatureDim*curvatureDim+a*curvatureDim+b]
}

// AddDiagonalFlat adds delta to the three diagonal entries of the cell
// at the given row-major offset. Off-diagonal entries are never forced.
func (c *Curvature) AddDiagonalFlat(cell int, delta float64) {
	base := cell * curvatureDim * curvatureDim
	for d := 0; d < curvatureDim; d++ {
		c.data[base+d*curvatureDim+d] += delta
	}
}

// TraceFlat is the sum of diagonal entries of the cell at the given
// row-major offset.
func (c *Curvature) TraceFlat(cell int) float64 {
	base := cell * curvatureDim * curvatureDim
	var tr float64
	for d := 0; d < curvatureDim; d++ {
		tr += c.data[base+d*curvatureDim+d]
	}
	return tr
}

// MeanAbs is the mean absolute value over all tensor entries, the
// inhomogeneity diagnostic recorded per evolution step.
func (c *Curvature) MeanAbs() float64 {
	if len(c.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range c.data {
		sum += math.Abs(v)
	}
	return sum / float64(len(c.data))
}

func (c *Curvature) Clone() *Curvature {
	out := &Curvature{size: c.size, data: make([]float64, len(c.data))}
	copy(out.data, c.data)
	return out
}
