package guard

import (
	"errors"
	"math"
	"testing"
)

func TestCheckGridSize(t *testing.T) {
	limits := DefaultLimits()

	if err := limits.CheckGridSize(64); err != nil {
		t.Fatalf("valid size rejected: %v", err)
	}
	if err := limits.CheckGridSize(0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero size, got %v", err)
	}
	if err := limits.CheckGridSize(-3); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative size, got %v", err)
	}

	err := limits.CheckGridSize(limits.MaxGridSize + 1)
	if !errors.Is(err, ErrResourceLimit) {
		t.Fatalf("expected resource limit error, got %v", err)
	}
	// Resource limit errors are still validation errors.
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("resource limit should match ErrValidation, got %v", err)
	}
}

func TestCheckGridSizeAtCeiling(t *testing.T) {
	limits := DefaultLimits()
	if err := limits.CheckGridSize(limits.MaxGridSize); err != nil {
		t.Fatalf("ceiling value rejected: %v", err)
	}
}

func TestCheckDomainLength(t *testing.T) {
	limits := DefaultLimits()

	if err := limits.CheckDomainLength(10.0); err != nil {
		t.Fatalf("valid length rejected: %v", err)
	}
	for _, bad := range []float64{0, -1, math.NaN()} {
		if err := limits.CheckDomainLength(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %v, got %v", bad, err)
		}
	}
}

func TestCheckIterationsAndSteps(t *testing.T) {
	limits := DefaultLimits()

	if err := limits.CheckIterations(limits.MaxIterations); err != nil {
		t.Fatalf("ceiling iterations rejected: %v", err)
	}
	if err := limits.CheckIterations(limits.MaxIterations + 1); !errors.Is(err, ErrResourceLimit) {
		t.Fatalf("expected resource limit error, got %v", err)
	}
	if err := limits.CheckIterations(0); errors.Is(err, ErrResourceLimit) || !errors.Is(err, ErrValidation) {
		t.Fatalf("zero iterations should be plain validation, got %v", err)
	}

	if err := limits.CheckSteps(limits.MaxSteps); err != nil {
		t.Fatalf("ceiling steps rejected: %v", err)
	}
	if err := limits.CheckSteps(limits.MaxSteps + 1); !errors.Is(err, ErrResourceLimit) {
		t.Fatalf("expected resource limit error, got %v", err)
	}
}

func TestCheckTimeStep(t *testing.T) {
	limits := DefaultLimits()

	if err := limits.CheckTimeStep(0.01); err != nil {
		t.Fatalf("valid dt rejected: %v", err)
	}
	if err := limits.CheckTimeStep(limits.MaxTimeStep); err != nil {
		t.Fatalf("ceiling dt rejected: %v", err)
	}
	for _, bad := range []float64{0, -0.5, math.NaN()} {
		if err := limits.CheckTimeStep(bad); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %v, got %v", bad, err)
		}
	}

	// The stability ceiling reports plain validation, not resource limit.
	err := limits.CheckTimeStep(limits.MaxTimeStep + 1)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error above ceiling, got %v", err)
	}
	if errors.Is(err, ErrResourceLimit) {
		t.Fatalf("dt ceiling should not be a resource limit error: %v", err)
	}
}
