package run

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aethelgard/internal/grid"
	"aethelgard/internal/guard"
	"aethelgard/internal/metric"
	"aethelgard/internal/model"
	"aethelgard/internal/ops"
	"aethelgard/internal/scenario"
	"aethelgard/internal/solver"
	"aethelgard/internal/stats"
	"aethelgard/internal/storage"
)

// Params drives one solve or evolve execution. A scenario name pulls
// defaults from the registry (or a loaded definition); explicit nonzero
// fields override the scenario's values. Without a scenario the inputs
// default to zero fields, which is the null configuration.
type Params struct {
	Scenario     string
	Definition   *scenario.Definition // overrides registry lookup when set
	GridSize     int
	DomainLength float64
	Iterations   int
	Steps        int
	TimeStep     float64
	Accelerated  bool
	Seed         int64
	Limits       *guard.Limits
}

// Result couples the persisted record with the final metric state and,
// for evolution runs, the step history.
type Result struct {
	Record  model.RunRecord
	Metric  *metric.Field
	History solver.History
}

func (p Params) resolve() (scenario.Definition, error) {
	def := scenario.Definition{}
	if p.Definition != nil {
		def = *p.Definition
	} else if p.Scenario != "" {
		found, ok := scenario.Lookup(p.Scenario)
		if !ok {
			return scenario.Definition{}, fmt.Errorf("%w: unknown scenario: %s", guard.ErrValidation, p.Scenario)
		}
		def = found
	}
	if p.GridSize != 0 {
		def.GridSize = p.GridSize
	}
	if p.DomainLength != 0 {
		def.DomainLength = p.DomainLength
	}
	if p.Iterations != 0 {
		def.Iterations = p.Iterations
	}
	if p.Steps != 0 {
		def.Steps = p.Steps
	}
	if p.TimeStep != 0 {
		def.TimeStep = p.TimeStep
	}
	if p.Seed != 0 {
		def.Seed = p.Seed
	}
	return def, nil
}

func newRecord(kind string, def scenario.Definition, backend string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:           uuid.NewString(),
		CreatedAtUTC: time.Now().UTC().Format(time.RFC3339Nano),
		Kind:         kind,
		Scenario:     def.Name,
		GridSize:     def.GridSize,
		DomainLength: def.DomainLength,
		Backend:      backend,
		Seed:         def.Seed,
	}
}

// ExecuteSolve runs the static solver for the given parameters and
// persists the run record.
func ExecuteSolve(ctx context.Context, store storage.Store, p Params) (Result, error) {
	def, err := p.resolve()
	if err != nil {
		return Result{}, err
	}

	s, err := solver.NewStatic(solver.Config{
		GridSize:     def.GridSize,
		DomainLength: def.DomainLength,
		Accelerated:  p.Accelerated,
		Limits:       p.Limits,
	})
	if err != nil {
		return Result{}, err
	}

	mass, err := def.BuildMass(s.Spec())
	if err != nil {
		return Result{}, err
	}
	entropy, err := def.BuildEntropy(s.Spec())
	if err != nil {
		return Result{}, err
	}

	result, err := s.Solve(mass, entropy, def.Iterations)
	if err != nil {
		return Result{}, err
	}

	rec := newRecord(model.RunKindStatic, def, s.BackendName())
	rec.Iterations = def.Iterations
	rec.Hazard = s.Hazard()
	stats.ApplySummary(&rec, stats.SummarizeMetric(result))

	if store != nil {
		if err := store.SaveRun(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("save run: %w", err)
		}
	}
	return Result{Record: rec, Metric: result}, nil
}

// PrepareEvolution resolves the parameters and assembles everything
// needed to drive an evolution run: the effective scenario definition,
// the mass field, the entropy source, and a fresh controller. Callers
// that advance the controller step by step (the websocket stream) use
// this directly; ExecuteEvolve builds on it.
func PrepareEvolution(p Params) (scenario.Definition, *grid.ScalarField, solver.EntropySource, *solver.Evolution, error) {
	def, err := p.resolve()
	if err != nil {
		return scenario.Definition{}, nil, nil, nil, err
	}

	e, err := solver.NewEvolution(solver.Config{
		GridSize:     def.GridSize,
		DomainLength: def.DomainLength,
		Accelerated:  p.Accelerated,
		Limits:       p.Limits,
	})
	if err != nil {
		return scenario.Definition{}, nil, nil, nil, err
	}

	mass, err := def.BuildMass(e.Spec())
	if err != nil {
		return scenario.Definition{}, nil, nil, nil, err
	}
	source, err := def.BuildSource(e.Spec(), ops.Select(p.Accelerated))
	if err != nil {
		return scenario.Definition{}, nil, nil, nil, err
	}
	return def, mass, source, e, nil
}

// ExecuteEvolve runs the time-evolution controller for the given
// parameters, persisting both the run record and the per-step history.
func ExecuteEvolve(ctx context.Context, store storage.Store, p Params) (Result, error) {
	def, mass, source, e, err := PrepareEvolution(p)
	if err != nil {
		return Result{}, err
	}

	history, err := e.Evolve(mass, source, def.Steps, def.TimeStep)
	if err != nil {
		return Result{}, err
	}

	rec := newRecord(model.RunKindEvolution, def, e.BackendName())
	rec.Steps = def.Steps
	rec.TimeStep = def.TimeStep
	rec.Hazard = e.Hazard()
	stats.ApplySummary(&rec, stats.SummarizeMetric(e.Metric()))

	if store != nil {
		if err := store.SaveRun(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("save run: %w", err)
		}
		if err := store.SaveHistory(ctx, rec.ID, history.Steps); err != nil {
			return Result{}, fmt.Errorf("save history: %w", err)
		}
	}
	return Result{Record: rec, Metric: e.Metric(), History: history}, nil
}

// MidplaneSlice extracts the z mid-plane of g00 for export and display.
func MidplaneSlice(m *metric.Field) [][]float64 {
	plane, err := m.SliceG00("z", m.Size()/2)
	if err != nil {
		return nil
	}
	return plane
}
