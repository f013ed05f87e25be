package run

import (
	"context"
	"errors"
	"testing"

	"aethelgard/internal/guard"
	"aethelgard/internal/metric"
	"aethelgard/internal/model"
	"aethelgard/internal/scenario"
	"aethelgard/internal/storage"
)

func newTestStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}

func smallDefinition(steps bool) *scenario.Definition {
	def := &scenario.Definition{
		Name:         "test-flat",
		GridSize:     6,
		DomainLength: 6.0,
		Iterations:   10,
	}
	if steps {
		def.Iterations = 0
		def.Steps = 4
		def.TimeStep = 0.01
	}
	return def
}

func TestResolveScenarioWithOverrides(t *testing.T) {
	p := Params{Scenario: "dark-energy-cosmology", GridSize: 16, Iterations: 25}
	def, err := p.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if def.GridSize != 16 {
		t.Fatalf("grid size = %d, want override 16", def.GridSize)
	}
	if def.Iterations != 25 {
		t.Fatalf("iterations = %d, want override 25", def.Iterations)
	}
	if def.DomainLength != 100.0 {
		t.Fatalf("domain length = %v, want scenario default 100", def.DomainLength)
	}
}

func TestResolveUnknownScenario(t *testing.T) {
	_, err := Params{Scenario: "nonexistent"}.resolve()
	if !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveExplicitDefinitionWins(t *testing.T) {
	def, err := Params{Scenario: "ignored", Definition: smallDefinition(false)}.resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if def.Name != "test-flat" {
		t.Fatalf("name = %s, want explicit definition", def.Name)
	}
}

func TestExecuteSolvePersistsRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	result, err := ExecuteSolve(ctx, store, Params{Definition: smallDefinition(false)})
	if err != nil {
		t.Fatalf("execute solve: %v", err)
	}

	if result.Record.ID == "" {
		t.Fatal("run record has no id")
	}
	if result.Record.Kind != model.RunKindStatic {
		t.Fatalf("kind = %s, want %s", result.Record.Kind, model.RunKindStatic)
	}
	if result.Record.SchemaVersion != storage.CurrentSchemaVersion {
		t.Fatalf("schema version = %d", result.Record.SchemaVersion)
	}
	// Flat scenario: nothing curves, statistics stay at the flat value.
	if result.Record.G00Mean != metric.FlatG00 || result.Record.Hazard != 0 {
		t.Fatalf("unexpected summary: %+v", result.Record)
	}

	stored, ok, err := store.GetRun(ctx, result.Record.ID)
	if err != nil || !ok {
		t.Fatalf("stored run: ok=%t err=%v", ok, err)
	}
	if stored.ID != result.Record.ID {
		t.Fatalf("stored run mismatch: %+v", stored)
	}
}

func TestExecuteEvolvePersistsHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	result, err := ExecuteEvolve(ctx, store, Params{Definition: smallDefinition(true)})
	if err != nil {
		t.Fatalf("execute evolve: %v", err)
	}

	if result.Record.Kind != model.RunKindEvolution {
		t.Fatalf("kind = %s, want %s", result.Record.Kind, model.RunKindEvolution)
	}
	if result.Record.Steps != 4 || result.Record.TimeStep != 0.01 {
		t.Fatalf("unexpected record: %+v", result.Record)
	}
	if len(result.History.Steps) != 4 {
		t.Fatalf("history steps = %d, want 4", len(result.History.Steps))
	}

	steps, ok, err := store.GetHistory(ctx, result.Record.ID)
	if err != nil || !ok {
		t.Fatalf("stored history: ok=%t err=%v", ok, err)
	}
	if len(steps) != 4 {
		t.Fatalf("stored history steps = %d, want 4", len(steps))
	}
}

func TestExecuteSolveWithoutStore(t *testing.T) {
	result, err := ExecuteSolve(context.Background(), nil, Params{Definition: smallDefinition(false)})
	if err != nil {
		t.Fatalf("execute solve: %v", err)
	}
	if result.Record.ID == "" {
		t.Fatal("expected run record without persistence")
	}
}

func TestExecuteSolvePropagatesValidation(t *testing.T) {
	def := smallDefinition(false)
	def.GridSize = 0
	_, err := ExecuteSolve(context.Background(), newTestStore(t), Params{Definition: def})
	if !errors.Is(err, guard.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepareEvolutionBuildsController(t *testing.T) {
	def, mass, source, e, err := PrepareEvolution(Params{Definition: smallDefinition(true)})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if def.Steps != 4 {
		t.Fatalf("steps = %d, want 4", def.Steps)
	}
	if !mass.Matches(e.Spec()) {
		t.Fatal("mass field does not match controller grid")
	}
	if _, err := e.Step(mass, source, def.TimeStep); err != nil {
		t.Fatalf("step: %v", err)
	}
}

func TestMidplaneSlice(t *testing.T) {
	_, _, _, e, err := PrepareEvolution(Params{Definition: smallDefinition(true)})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	plane := MidplaneSlice(e.Metric())
	if len(plane) != 6 || len(plane[0]) != 6 {
		t.Fatalf("plane shape = %dx%d, want 6x6", len(plane), len(plane[0]))
	}
	if plane[0][0] != metric.FlatG00 {
		t.Fatalf("plane value = %v, want %v", plane[0][0], metric.FlatG00)
	}
}
