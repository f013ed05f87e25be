package ops

import "aethelgard/internal/grid"

// secondDifference is the unscaled axis contribution to the Laplacian at
// position idx along an axis of n cells. Interior cells use the centered
// 3-point stencil; edge cells use the one-sided 3-point stencil over the
// nearest interior cells, which evaluates to zero on uniform fields. An
// axis shorter than 3 cells carries no curvature information and
// contributes zero.
func secondDifference(at func(int) float64, idx, n int) float64 {
	if n < 3 {
		return 0
	}
	switch {
	case idx == 0:
		return at(0) - 2*at(1) + at(2)
	case idx == n-1:
		return at(n-1) - 2*at(n-2) + at(n-3)
	default:
		return at(idx+1) - 2*at(idx) + at(idx-1)
	}
}

// firstDifference is the unscaled axis derivative numerator; callers
// divide by the matching denominator from firstDenominator.
func firstDifference(at func(int) float64, idx, n int) float64 {
	if n < 2 {
		return 0
	}
	switch {
	case idx == 0:
		return at(1) - at(0)
	case idx == n-1:
		return at(n - 1) - at(n-2)
	default:
		return at(idx+1) - at(idx-1)
	}
}

func firstDenominator(idx, n int, dx float64) float64 {
	if idx == 0 || idx == n-1 {
		return dx
	}
	return 2 * dx
}

// laplacianRow fills one [j][k] plane row (fixed i) of the output.
func laplacianRow(spec grid.Spec, f, out *grid.ScalarField, i int) {
	n := spec.Size()
	dx2 := spec.Spacing() * spec.Spacing()
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			jj, kk := j, k
			sum := secondDifference(func(x int) float64 { return f.At(x, jj, kk) }, i, n)
			ii := i
			sum += secondDifference(func(y int) float64 { return f.At(ii, y, kk) }, j, n)
			sum += secondDifference(func(z int) float64 { return f.At(ii, jj, z) }, k, n)
			out.Set(i, j, k, sum/dx2)
		}
	}
}

// gradientRow fills one fixed-i plane of the three gradient components.
func gradientRow(spec grid.Spec, f, gx, gy, gz *grid.ScalarField, i int) {
	n := spec.Size()
	dx := spec.Spacing()
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			ii, jj, kk := i, j, k
			gx.Set(i, j, k, firstDifference(func(x int) float64 { return f.At(x, jj, kk) }, i, n)/firstDenominator(i, n, dx))
			gy.Set(i, j, k, firstDifference(func(y int) float64 { return f.At(ii, y, kk) }, j, n)/firstDenominator(j, n, dx))
			gz.Set(i, j, k, firstDifference(func(z int) float64 { return f.At(ii, jj, z) }, k, n)/firstDenominator(k, n, dx))
		}
	}
}
