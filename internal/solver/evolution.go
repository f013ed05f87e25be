package solver

import (
	"fmt"

	"aethelgard/internal/grid"
	"aethelgard/internal/guard"
	"aethelgard/internal/metric"
	"aethelgard/internal/model"
	"aethelgard/internal/stats"
)

// State is the lifecycle of a time-evolution controller.
type State string

const (
	StateInitialized State = "initialized"
	StateEvolving    State = "evolving"
	StateCompleted   State = "completed"
)

// EntropySource yields the entropy field for a given elapsed time. The
// returned field must match the controller's grid shape; a source error
// aborts the evolution run with a computation error.
type EntropySource func(t float64) (*grid.ScalarField, error)

// StaticSource wraps a fixed entropy field as a time-independent source.
// The field is copied once, so later caller mutations have no effect.
func StaticSource(f *grid.ScalarField) EntropySource {
	frozen := f.Clone()
	return func(float64) (*grid.ScalarField, error) {
		return frozen, nil
	}
}

// Snapshot pairs an elapsed time with a deep copy of the metric state.
type Snapshot struct {
	Time   float64
	Metric *metric.Field
}

// History is the append-only record of one evolution segment: the
// segment's initial snapshot plus one snapshot per executed step, and a
// per-step summary row matching the post-initial snapshots.
type History struct {
	Snapshots []Snapshot
	Steps     []model.StepSummary
}

// Evolution advances the metric and an auxiliary extrinsic-curvature
// field across discrete time steps with an ADM-style split. Unlike the
// static solver, state persists and compounds: curvature at step n
// responds to stress at step n, and the metric at step n+1 moves with
// the curvature from step n.
type Evolution struct {
	core
	curvature *metric.Curvature
	state     State
	now       float64
	steps     int
}

func NewEvolution(cfg Config) (*Evolution, error) {
	c, err := newCore(cfg)
	if err != nil {
		return nil, err
	}
	return &Evolution{
		core:      c,
		curvature: metric.NewCurvature(c.spec.Size()),
		state:     StateInitialized,
	}, nil
}

func (e *Evolution) Spec() grid.Spec { return e.spec }

func (e *Evolution) BackendName() string { return e.backend.Name() }

func (e *Evolution) State() State { return e.state }

// Time is the elapsed simulation time across all segments.
func (e *Evolution) Time() float64 { return e.now }

// Metric returns a deep copy of the controller's metric state.
func (e *Evolution) Metric() *metric.Field { return e.metric.Clone() }

// Curvature returns a deep copy of the extrinsic-curvature field.
func (e *Evolution) Curvature() *metric.Curvature { return e.curvature.Clone() }

// Evolve runs step-count discrete updates and returns the segment's
// history. A Completed controller resumes: a further call continues from
// the persisted metric, curvature and clock, returning only the new
// segment. If the entropy source fails mid-run, the partial history up
// to the failure is returned together with a computation error; the
// committed steps stay applied so a corrected source can resume.
func (e *Evolution) Evolve(mass *grid.ScalarField, source EntropySource, steps int, dt float64) (History, error) {
	if err := e.limits.CheckSteps(steps); err != nil {
		return History{}, err
	}
	if err := e.limits.CheckTimeStep(dt); err != nil {
		return History{}, err
	}
	if err := e.checkField("mass", mass); err != nil {
		return History{}, err
	}
	if source == nil {
		return History{}, fmt.Errorf("%w: entropy source is required", guard.ErrValidation)
	}

	e.state = StateEvolving
	history := History{
		Snapshots: []Snapshot{{Time: e.now, Metric: e.metric.Clone()}},
	}
	for n := 0; n < steps; n++ {
		summary, err := e.stepOnce(mass, source, dt)
		if err != nil {
			e.state = StateCompleted
			return history, err
		}
		history.Snapshots = append(history.Snapshots, Snapshot{Time: e.now, Metric: e.metric.Clone()})
		history.Steps = append(history.Steps, summary)
	}
	e.state = StateCompleted
	return history, nil
}

// Step advances the controller by a single step, validating the inputs
// the same way Evolve does. The controller stays in the Evolving state;
// callers driving the controller step-by-step own the decision of when
// the run is complete.
func (e *Evolution) Step(mass *grid.ScalarField, source EntropySource, dt float64) (model.StepSummary, error) {
	if err := e.limits.CheckTimeStep(dt); err != nil {
		return model.StepSummary{}, err
	}
	if err := e.checkField("mass", mass); err != nil {
		return model.StepSummary{}, err
	}
	if source == nil {
		return model.StepSummary{}, fmt.Errorf("%w: entropy source is required", guard.ErrValidation)
	}
	e.state = StateEvolving
	return e.stepOnce(mass, source, dt)
}

// Complete marks a step-driven run as finished.
func (e *Evolution) Complete() { e.state = StateCompleted }

func (e *Evolution) stepOnce(mass *grid.ScalarField, source EntropySource, dt float64) (model.StepSummary, error) {
	entropy, err := source(e.now)
	if err != nil {
		return model.StepSummary{}, fmt.Errorf("%w: entropy source at t=%g: %v", guard.ErrComputation, e.now, err)
	}
	if entropy == nil || !entropy.Matches(e.spec) {
		return model.StepSummary{}, fmt.Errorf("%w: entropy source returned a field not matching grid size %d", guard.ErrComputation, e.spec.Size())
	}

	total := e.stress.Total(mass, entropy)
	forcing := dt * e.consts.CurvatureCoupling() * curvatureGain
	for cell, t := range total.Data() {
		// Curvature first, forced by the current stress; the metric then
		// moves with the freshly updated curvature trace.
		e.curvature.AddDiagonalFlat(cell, forcing*t)
		e.metric.AddG00Flat(cell, dt*e.curvature.TraceFlat(cell)/3)
	}

	e.now += dt
	e.steps++
	summary := stats.SummarizeMetric(e.metric)
	return model.StepSummary{
		Step:        e.steps,
		Time:        e.now,
		G00Mean:     summary.G00Mean,
		G00Std:      summary.G00Std,
		KMeanAbs:    e.curvature.MeanAbs(),
		EntropyMean: stats.MeanOf(entropy.Data()),
	}, nil
}
