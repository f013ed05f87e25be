package solver

import (
	"gonum.org/v1/gonum/floats"

	"aethelgard/internal/grid"
	"aethelgard/internal/metric"
)

// Static relaxes the metric toward a solution of the modified field
// equations with a fixed iteration count. There is no convergence check
// or early exit: results are step-count dependent and reported as such.
type Static struct {
	core
}

func NewStatic(cfg Config) (*Static, error) {
	c, err := newCore(cfg)
	if err != nil {
		return nil, err
	}
	return &Static{core: c}, nil
}

func (s *Static) Spec() grid.Spec { return s.spec }

func (s *Static) BackendName() string { return s.backend.Name() }

// Metric returns a deep copy of the solver's metric state.
func (s *Static) Metric() *metric.Field { return s.metric.Clone() }

// Solve runs the relaxation loop and returns a copy of the resulting
// metric. Inputs are read-only to the solver; validation failures leave
// the prior metric state untouched. The stresses are computed once
// before the loop because the distributions are static for the run.
func (s *Static) Solve(mass, entropy *grid.ScalarField, iterations int) (*metric.Field, error) {
	if err := s.limits.CheckIterations(iterations); err != nil {
		return nil, err
	}
	if err := s.checkField("mass", mass); err != nil {
		return nil, err
	}
	if err := s.checkField("entropy", entropy); err != nil {
		return nil, err
	}

	total := s.stress.Total(mass, entropy)
	update := total.Data()
	floats.Scale(s.consts.Coupling()*learningRate, update)

	for it := 0; it < iterations; it++ {
		for cell, delta := range update {
			s.metric.AddG00Flat(cell, delta)
		}
	}
	return s.metric.Clone(), nil
}
