package ops

import (
	"sync"

	"aethelgard/internal/grid"
)

// ParallelBackend decomposes the grid into i-axis slabs evaluated by a
// fixed worker pool. Every output cell is computed by the same kernels
// as the serial backend and no cell is written twice, so results are
// identical bit-for-bit.
type ParallelBackend struct {
	workers int
}

func NewParallelBackend(workers int) *ParallelBackend {
	if workers < 1 {
		workers = 1
	}
	return &ParallelBackend{workers: workers}
}

func (b *ParallelBackend) Name() string { return "parallel" }

func (b *ParallelBackend) forEachSlab(n int, fn func(i int)) {
	var wg sync.WaitGroup
	rows := make(chan int)
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()
}

func (b *ParallelBackend) Gradient(spec grid.Spec, f *grid.ScalarField) (gx, gy, gz *grid.ScalarField) {
	gx = grid.NewScalarField(spec)
	gy = grid.NewScalarField(spec)
	gz = grid.NewScalarField(spec)
	b.forEachSlab(spec.Size(), func(i int) {
		gradientRow(spec, f, gx, gy, gz, i)
	})
	return gx, gy, gz
}

func (b *ParallelBackend) Laplacian(spec grid.Spec, f *grid.ScalarField) *grid.ScalarField {
	out := grid.NewScalarField(spec)
	b.forEachSlab(spec.Size(), func(i int) {
		laplacianRow(spec, f, out, i)
	})
	return out
}
