package grid

import (
	"aethelgard/internal/guard"
)

// Spec is the immutable geometry of a cubic simulation grid: cells per
// axis, physical extent, and the derived spacing. Changing resolution
// means constructing a new Spec and new dependent state.
type Spec struct {
	size         int
	domainLength float64
	spacing      float64
}

func NewSpec(size int, domainLength float64, limits guard.Limits) (Spec, error) {
	if err := limits.CheckGridSize(size); err != nil {
		return Spec{}, err
	}
	if err := limits.CheckDomainLength(domainLength); err != nil {
		return Spec{}, err
	}
	return Spec{
		size:         size,
		domainLength: domainLength,
		spacing:      domainLength / float64(size),
	}, nil
}

func (s Spec) Size() int { return s.size }

func (s Spec) DomainLength() float64 { return s.domainLength }

// Spacing is domain length divided by size; positive by construction.
func (s Spec) Spacing() float64 { return s.spacing }

// Cells is the total cell count, size cubed.
func (s Spec) Cells() int { return s.size * s.size * s.size }

// Index maps [i,j,k] to the row-major flat offset used by every field in
// this package. All outputs use the same ordering as inputs; there is no
// hidden reordering.
func (s Spec) Index(i, j, k int) int {
	return (i*s.size+j)*s.size + k
}

// Coordinate is the physical position of cell i along one axis, with the
// grid spanning [0, domainLength] inclusive.
func (s Spec) Coordinate(i int) float64 {
	if s.size <= 1 {
		return 0
	}
	return float64(i) * s.domainLength / float64(s.size-1)
}
