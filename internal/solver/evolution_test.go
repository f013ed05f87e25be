package solver

import (
	"errors"
	"testing"

	"aethelgard/internal/grid"
	"aethelgard/internal/guard"
	"aethelgard/internal/metric"
)

func newTestEvolution(t *testing.T, size int, length float64) *Evolution {
	t.Helper()
	e, err := NewEvolution(Config{GridSize: size, DomainLength: length})
	if err != nil {
		t.Fatalf("new evolution controller: %v", err)
	}
	return e
}

func TestEvolveEmptySpaceStaysFlat(t *testing.T) {
	e := newTestEvolution(t, 6, 6.0)
	mass := grid.NewScalarField(e.Spec())
	source := StaticSource(grid.NewScalarField(e.Spec()))

	history, err := e.Evolve(mass, source, 5, 0.01)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}

	if len(history.Snapshots) != 6 {
		t.Fatalf("snapshots = %d, want 6 (initial plus one per step)", len(history.Snapshots))
	}
	if len(history.Steps) != 5 {
		t.Fatalf("step summaries = %d, want 5", len(history.Steps))
	}
	for n, snap := range history.Snapshots {
		for c, g00 := range snap.Metric.G00Slice() {
			if g00 != metric.FlatG00 {
				t.Fatalf("snapshot %d cell %d: g00 = %v, want %v", n, c, g00, metric.FlatG00)
			}
		}
	}
	for _, step := range history.Steps {
		if step.KMeanAbs != 0 {
			t.Fatalf("step %d: curvature = %v, want 0", step.Step, step.KMeanAbs)
		}
	}
	if e.State() != StateCompleted {
		t.Fatalf("state = %s, want %s", e.State(), StateCompleted)
	}
}

func TestEvolveUniformMassLiftsMetric(t *testing.T) {
	e := newTestEvolution(t, 6, 6.0)
	mass := grid.NewUniformField(e.Spec(), 1e27)
	source := StaticSource(grid.NewScalarField(e.Spec()))

	history, err := e.Evolve(mass, source, 10, 0.1)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}

	// Curvature compounds: each step's g00 gain exceeds the last.
	prevMean := metric.FlatG00
	prevGain := 0.0
	for _, step := range history.Steps {
		gain := step.G00Mean - prevMean
		if gain <= prevGain {
			t.Fatalf("step %d: g00 gain %v did not grow from %v", step.Step, gain, prevGain)
		}
		if step.KMeanAbs <= 0 {
			t.Fatalf("step %d: curvature = %v, want positive", step.Step, step.KMeanAbs)
		}
		prevMean = step.G00Mean
		prevGain = gain
	}
	if final := history.Steps[len(history.Steps)-1].G00Mean; final <= metric.FlatG00 {
		t.Fatalf("final g00 mean = %v, want above %v", final, metric.FlatG00)
	}
}

func TestEvolveSnapshotTimesAdvance(t *testing.T) {
	e := newTestEvolution(t, 4, 4.0)
	mass := grid.NewScalarField(e.Spec())
	source := StaticSource(grid.NewScalarField(e.Spec()))

	history, err := e.Evolve(mass, source, 4, 0.25)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if history.Snapshots[0].Time != 0 {
		t.Fatalf("initial snapshot time = %v, want 0", history.Snapshots[0].Time)
	}
	for n := 1; n < len(history.Snapshots); n++ {
		if history.Snapshots[n].Time <= history.Snapshots[n-1].Time {
			t.Fatalf("snapshot %d time %v did not advance past %v", n, history.Snapshots[n].Time, history.Snapshots[n-1].Time)
		}
	}
}

func TestEvolveResumesFromCompletedState(t *testing.T) {
	e := newTestEvolution(t, 4, 4.0)
	mass := grid.NewUniformField(e.Spec(), 1e27)
	source := StaticSource(grid.NewScalarField(e.Spec()))

	first, err := e.Evolve(mass, source, 3, 0.1)
	if err != nil {
		t.Fatalf("first segment: %v", err)
	}
	if e.State() != StateCompleted {
		t.Fatalf("state = %s, want %s", e.State(), StateCompleted)
	}

	second, err := e.Evolve(mass, source, 2, 0.1)
	if err != nil {
		t.Fatalf("second segment: %v", err)
	}

	endOfFirst := first.Snapshots[len(first.Snapshots)-1]
	if second.Snapshots[0].Time != endOfFirst.Time {
		t.Fatalf("resume started at t=%v, want %v", second.Snapshots[0].Time, endOfFirst.Time)
	}
	if second.Steps[0].Step != 4 {
		t.Fatalf("resume step numbering = %d, want 4", second.Steps[0].Step)
	}
	// The metric keeps compounding across segments.
	if second.Steps[len(second.Steps)-1].G00Mean <= first.Steps[len(first.Steps)-1].G00Mean {
		t.Fatal("resumed segment did not continue from accumulated state")
	}
}

func TestEvolveSourceFailureReturnsPartialHistory(t *testing.T) {
	e := newTestEvolution(t, 4, 4.0)
	mass := grid.NewScalarField(e.Spec())
	// Width 0.15 with shrink rate 1 survives t=0 and t=0.1, then fails.
	source := CollapseSource(e.Spec(), 2.0, 0.15, 1.0)

	history, err := e.Evolve(mass, source, 5, 0.1)
	if !errors.Is(err, guard.ErrComputation) {
		t.Fatalf("expected computation error, got %v", err)
	}
	if len(history.Snapshots) != 3 {
		t.Fatalf("snapshots = %d, want 3 (initial plus two committed steps)", len(history.Snapshots))
	}
	if len(history.Steps) != 2 {
		t.Fatalf("step summaries = %d, want 2", len(history.Steps))
	}
	if e.State() != StateCompleted {
		t.Fatalf("state = %s, want %s", e.State(), StateCompleted)
	}
}

func TestEvolveValidation(t *testing.T) {
	e := newTestEvolution(t, 4, 4.0)
	mass := grid.NewScalarField(e.Spec())
	source := StaticSource(grid.NewScalarField(e.Spec()))

	if _, err := e.Evolve(mass, source, 0, 0.1); !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error for zero steps, got %v", err)
	}
	if _, err := e.Evolve(mass, source, guard.DefaultLimits().MaxSteps+1, 0.1); !errors.Is(err, guard.ErrResourceLimit) {
		t.Fatalf("expected resource limit error, got %v", err)
	}
	if _, err := e.Evolve(mass, source, 5, 0); !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error for zero dt, got %v", err)
	}
	if _, err := e.Evolve(mass, source, 5, guard.DefaultLimits().MaxTimeStep+1); !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error for oversized dt, got %v", err)
	}
	if _, err := e.Evolve(nil, source, 5, 0.1); !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error for nil mass, got %v", err)
	}
	if _, err := e.Evolve(mass, nil, 5, 0.1); !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error for nil source, got %v", err)
	}
	if e.State() != StateInitialized {
		t.Fatalf("rejected runs should leave state %s, got %s", StateInitialized, e.State())
	}
}

func TestEvolveRejectsMismatchedSourceField(t *testing.T) {
	e := newTestEvolution(t, 4, 4.0)
	mass := grid.NewScalarField(e.Spec())

	wrongSpec, err := grid.NewSpec(3, 4.0, guard.DefaultLimits())
	if err != nil {
		t.Fatalf("new spec: %v", err)
	}
	source := StaticSource(grid.NewScalarField(wrongSpec))

	if _, err := e.Evolve(mass, source, 3, 0.1); !errors.Is(err, guard.ErrComputation) {
		t.Fatalf("expected computation error for mismatched source output, got %v", err)
	}
}

func TestStepDrivesControllerManually(t *testing.T) {
	e := newTestEvolution(t, 4, 4.0)
	mass := grid.NewUniformField(e.Spec(), 1e27)
	source := StaticSource(grid.NewScalarField(e.Spec()))

	for n := 1; n <= 3; n++ {
		summary, err := e.Step(mass, source, 0.1)
		if err != nil {
			t.Fatalf("step %d: %v", n, err)
		}
		if summary.Step != n {
			t.Fatalf("step numbering = %d, want %d", summary.Step, n)
		}
		if e.State() != StateEvolving {
			t.Fatalf("state = %s, want %s", e.State(), StateEvolving)
		}
	}

	e.Complete()
	if e.State() != StateCompleted {
		t.Fatalf("state = %s, want %s", e.State(), StateCompleted)
	}
}
