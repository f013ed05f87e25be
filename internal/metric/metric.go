package metric

import (
	"fmt"

	"aethelgard/internal/grid"
)

const tensorDim = 4

// FlatG00 is the time-time component of the flat-spacetime tensor.
const FlatG00 = -1.0

// flatDiagonal is the Minkowski signature used at construction.
var flatDiagonal = [tensorDim]float64{-1, 1, 1, 1}

// Field is the per-cell 4x4 metric tensor, stored flat in
// [i][j][k][mu][nu] order. A Field is owned by exactly one solver
// instance; callers receive deep copies so they cannot corrupt solver
// state through an aliasing handle.
type Field struct {
	size int
	data []float64
}

// NewField allocates a metric field initialized to flat spacetime:
// diagonal (-1,+1,+1,+1) at every cell, zero off-diagonals.
func NewField(spec grid.Spec) *Field {
	f := &Field{
		size: spec.Size(),
		data: make([]float64, spec.Cells()*tensorDim*tensorDim),
	}
	for c := 0; c < spec.Cells(); c++ {
		base := c * tensorDim * tensorDim
		for d := 0; d < tensorDim; d++ {
			f.data[base+d*tensorDim+d] = flatDiagonal[d]
		}
	}
	return f
}

func (f *Field) Size() int { return f.size }

func (f *Field) index(i, j, k, mu, nu int) int {
	cell := (i*f.size+j)*f.size + k
	return cell*tensorDim*tensorDim + mu*tensorDim + nu
}

func (f *Field) At(i, j, k, mu, nu int) float64 {
	return f.data[f.index(i, j, k, mu, nu)]
}

func (f *Field) Set(i, j, k, mu, nu int, v float64) {
	f.data[f.index(i, j, k, mu, nu)] = v
}

func (f *Field) G00(i, j, k int) float64 {
	return f.data[f.index(i, j, k, 0, 0)]
}

// AddG00Flat adds delta to the (0,0) component of cell at the given
// row-major cell offset. Only g00 is dynamically updated by the solvers.
func (f *Field) AddG00Flat(cell int, delta float64) {
	f.data[cell*tensorDim*tensorDim] += delta
}

func (f *Field) Clone() *Field {
	out := &Field{size: f.size, data: make([]float64, len(f.data))}
	copy(out.data, f.data)
	return out
}

// G00Slice extracts the g00 component of every cell into a fresh
// row-major slice.
func (f *Field) G00Slice() []float64 {
	cells := f.size * f.size * f.size
	out := make([]float64, cells)
	for c := 0; c < cells; c++ {
		out[c] = f.data[c*tensorDim*tensorDim]
	}
	return out
}

// SliceG00 extracts a 2-D plane of g00 values at the given index along
// axis "x", "y" or "z". Row/column ordering follows the remaining axes
// in [i,j,k] order with no reordering.
func (f *Field) SliceG00(axis string, index int) ([][]float64, error) {
	n := f.size
	if index < 0 || index >= n {
		return nil, fmt.Errorf("slice index %d out of range [0,%d)", index, n)
	}
	out := make([][]float64, n)
	for a := 0; a < n; a++ {
		out[a] = make([]float64, n)
		for b := 0; b < n; b++ {
			switch axis {
			case "x":
				out[a][b] = f.G00(index, a, b)
			case "y":
				out[a][b] = f.G00(a, index, b)
			case "z":
				out[a][b] = f.G00(a, b, index)
			default:
				return nil, fmt.Errorf("unknown slice axis: %s", axis)
			}
		}
	}
	return out, nil
}
