package solver

import (
	"math"
	"testing"

	"aethelgard/internal/grid"
	"aethelgard/internal/guard"
	"aethelgard/internal/ops"
)

func sourceSpec(t *testing.T, size int, length float64) grid.Spec {
	t.Helper()
	spec, err := grid.NewSpec(size, length, guard.DefaultLimits())
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	return spec
}

func TestStaticSourceFreezesField(t *testing.T) {
	spec := sourceSpec(t, 3, 3.0)
	f := grid.NewUniformField(spec, 2)
	source := StaticSource(f)

	f.Fill(99)

	out, err := source(1.5)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if got := out.At(0, 0, 0); got != 2 {
		t.Fatalf("source leaked caller mutation: %v", got)
	}
}

func TestWaveSourceShape(t *testing.T) {
	spec := sourceSpec(t, 8, 10.0)
	amplitude := 2.0
	source := WaveSource(spec, amplitude, 3.0, 1.0)

	out, err := source(0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	n := spec.Size()
	for i := 0; i < n; i++ {
		v := out.At(i, 0, 0)
		if v < 0.5*amplitude-1e-12 || v > 1.5*amplitude+1e-12 {
			t.Fatalf("plane %d: value %v outside [%v,%v]", i, v, 0.5*amplitude, 1.5*amplitude)
		}
		// The wave travels along x only; y-z planes are uniform.
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				if out.At(i, j, k) != v {
					t.Fatalf("plane %d not uniform at (%d,%d)", i, j, k)
				}
			}
		}
	}
}

func TestWaveSourceAdvancesWithTime(t *testing.T) {
	spec := sourceSpec(t, 8, 10.0)
	source := WaveSource(spec, 1.0, 4.0, 1.0)

	early, err := source(0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	late, err := source(1.0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	moved := false
	for i := 0; i < spec.Size(); i++ {
		if early.At(i, 0, 0) != late.At(i, 0, 0) {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("wave did not advance between samples")
	}
}

func TestWaveSourceDefaultsWavelength(t *testing.T) {
	spec := sourceSpec(t, 4, 10.0)
	source := WaveSource(spec, 1.0, 0, 1.0)
	if _, err := source(0); err != nil {
		t.Fatalf("source with defaulted wavelength: %v", err)
	}
}

func TestCollapseSourcePeaksAtCenterThenFails(t *testing.T) {
	spec := sourceSpec(t, 9, 10.0)
	source := CollapseSource(spec, 2.0, 3.0, 0.5)

	out, err := source(0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	mid := spec.Size() / 2
	center := out.At(mid, mid, mid)
	if center <= out.At(0, 0, 0) {
		t.Fatalf("center %v not above corner %v", center, out.At(0, 0, 0))
	}
	for _, v := range out.Data() {
		if v < 0 {
			t.Fatalf("negative entropy %v", v)
		}
	}

	// Entropy concentrates as the core collapses.
	later, err := source(2.0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if later.At(mid, mid, mid) <= center {
		t.Fatalf("collapse did not concentrate entropy: %v vs %v", later.At(mid, mid, mid), center)
	}

	// Width 3.0 at shrink rate 0.5 is exhausted at t=6.
	if _, err := source(6.0); err == nil {
		t.Fatal("expected error after core width exhaustion")
	}
}

func TestDiffusionSourceSmoothsPeak(t *testing.T) {
	spec := sourceSpec(t, 7, 7.0)
	mid := spec.Size() / 2
	initial := grid.NewScalarField(spec)
	initial.Set(mid, mid, mid, 100)

	source := DiffusionSource(spec, initial, 0.05, ops.SerialBackend{})

	first, err := source(0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if got := first.At(mid, mid, mid); got != 100 {
		t.Fatalf("first sample = %v, want initial 100", got)
	}

	second, err := source(0.5)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if second.At(mid, mid, mid) >= 100 {
		t.Fatalf("peak did not diffuse: %v", second.At(mid, mid, mid))
	}
	if second.At(mid+1, mid, mid) <= 0 {
		t.Fatalf("neighbor did not gain entropy: %v", second.At(mid+1, mid, mid))
	}
	for _, v := range second.Data() {
		if v < 0 || math.IsNaN(v) {
			t.Fatalf("invalid entropy value %v", v)
		}
	}
}

func TestDiffusionSourceKeepsOwnCopy(t *testing.T) {
	spec := sourceSpec(t, 4, 4.0)
	initial := grid.NewUniformField(spec, 5)
	source := DiffusionSource(spec, initial, 0.1, ops.SerialBackend{})

	initial.Fill(-1)

	out, err := source(0)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if got := out.At(0, 0, 0); got != 5 {
		t.Fatalf("source leaked caller mutation: %v", got)
	}
}
