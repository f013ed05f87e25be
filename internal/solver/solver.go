package solver

import (
	"fmt"
	"math"

	"aethelgard/internal/grid"
	"aethelgard/internal/guard"
	"aethelgard/internal/metric"
	"aethelgard/internal/ops"
	"aethelgard/internal/physics"
	"aethelgard/internal/stress"
)

// learningRate is the fixed relaxation step applied to g00 each
// iteration. Chosen empirically for stability; there is no adaptive
// step-size logic.
const learningRate = 0.01

// curvatureGain scales the extrinsic-curvature forcing per evolution
// step.
const curvatureGain = 0.005

// Config assembles a solver instance. Zero-value Constants and Limits
// fall back to the package defaults.
type Config struct {
	GridSize     int
	DomainLength float64
	Accelerated  bool
	Constants    *physics.Constants
	Limits       *guard.Limits
}

// core is the state shared by both solver variants: immutable geometry,
// frozen constants, the compute backend and the exclusively owned
// metric field.
type core struct {
	spec    grid.Spec
	consts  physics.Constants
	limits  guard.Limits
	backend ops.Backend
	stress  *stress.Calculator
	metric  *metric.Field
}

func newCore(cfg Config) (core, error) {
	limits := guard.DefaultLimits()
	if cfg.Limits != nil {
		limits = *cfg.Limits
	}
	spec, err := grid.NewSpec(cfg.GridSize, cfg.DomainLength, limits)
	if err != nil {
		return core{}, err
	}
	consts := physics.Default()
	if cfg.Constants != nil {
		consts = *cfg.Constants
	}
	backend := ops.Select(cfg.Accelerated)
	return core{
		spec:    spec,
		consts:  consts,
		limits:  limits,
		backend: backend,
		stress:  stress.NewCalculator(spec, consts, backend),
		metric:  metric.NewField(spec),
	}, nil
}

func (c *core) checkField(name string, f *grid.ScalarField) error {
	if f == nil {
		return fmt.Errorf("%w: %s field is required", guard.ErrValidation, name)
	}
	if !f.Matches(c.spec) {
		n := c.spec.Size()
		return fmt.Errorf("%w: %s field shape %d^3 does not match grid (%d,%d,%d)",
			guard.ErrValidation, name, f.Size(), n, n, n)
	}
	return nil
}

// Hazard is the paradox-hazard diagnostic: the largest deviation of g00
// from its flat value, normalized into [0,1] against the causality
// band half-width of 9.
func (c *core) Hazard() float64 {
	var worst float64
	for _, g00 := range c.metric.G00Slice() {
		if d := math.Abs(g00 - metric.FlatG00); d > worst {
			worst = d
		}
	}
	return math.Min(worst/9.0, 1.0)
}
