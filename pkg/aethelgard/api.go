package aethelgard

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"aethelgard/internal/guard"
	"aethelgard/internal/model"
	"aethelgard/internal/platform"
	"aethelgard/internal/run"
	"aethelgard/internal/scenario"
	"aethelgard/internal/stats"
	"aethelgard/internal/storage"
)

const (
	defaultExportsDir = "exports"
	defaultDBPath     = "aethelgard.db"
)

type Options struct {
	StoreKind  string
	DBPath     string
	ExportsDir string
	Limits     *guard.Limits
}

// Client is the embedding surface of the field laboratory: it owns the
// run store and executes solves, evolutions and exports against it.
type Client struct {
	store       storage.Store
	observatory *platform.Observatory
	limits      *guard.Limits

	exportsDir string
}

type SolveRequest struct {
	Scenario     string
	ScenarioFile string
	GridSize     int
	DomainLength float64
	Iterations   int
	Accelerated  bool
	Seed         int64
}

type EvolveRequest struct {
	Scenario     string
	ScenarioFile string
	GridSize     int
	DomainLength float64
	Steps        int
	TimeStep     float64
	Accelerated  bool
	Seed         int64
}

type SolveSummary struct {
	Run      model.RunRecord
	Midplane [][]float64
}

type EvolveSummary struct {
	Run      model.RunRecord
	History  []model.StepSummary
	Midplane [][]float64
}

type RunsRequest struct {
	Limit int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type ScenarioItem struct {
	Name         string
	Description  string
	GridSize     int
	DomainLength float64
	Iterations   int
	Steps        int
	TimeStep     float64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		limits:     opts.Limits,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensureObservatory(ctx)
	return err
}

// Solve executes one static relaxation run and persists its record.
func (c *Client) Solve(ctx context.Context, req SolveRequest) (SolveSummary, error) {
	obs, err := c.ensureObservatory(ctx)
	if err != nil {
		return SolveSummary{}, err
	}
	def, err := resolveDefinition(req.Scenario, req.ScenarioFile)
	if err != nil {
		return SolveSummary{}, err
	}
	limits := obs.Limits()

	result, err := run.ExecuteSolve(ctx, c.store, run.Params{
		Scenario:     req.Scenario,
		Definition:   def,
		GridSize:     req.GridSize,
		DomainLength: req.DomainLength,
		Iterations:   req.Iterations,
		Accelerated:  req.Accelerated,
		Seed:         req.Seed,
		Limits:       &limits,
	})
	if err != nil {
		return SolveSummary{}, err
	}
	return SolveSummary{
		Run:      result.Record,
		Midplane: run.MidplaneSlice(result.Metric),
	}, nil
}

// Evolve executes one time-evolution run, persisting the record and the
// per-step history.
func (c *Client) Evolve(ctx context.Context, req EvolveRequest) (EvolveSummary, error) {
	obs, err := c.ensureObservatory(ctx)
	if err != nil {
		return EvolveSummary{}, err
	}
	def, err := resolveDefinition(req.Scenario, req.ScenarioFile)
	if err != nil {
		return EvolveSummary{}, err
	}
	limits := obs.Limits()

	result, err := run.ExecuteEvolve(ctx, c.store, run.Params{
		Scenario:     req.Scenario,
		Definition:   def,
		GridSize:     req.GridSize,
		DomainLength: req.DomainLength,
		Steps:        req.Steps,
		TimeStep:     req.TimeStep,
		Accelerated:  req.Accelerated,
		Seed:         req.Seed,
		Limits:       &limits,
	})
	if err != nil {
		return EvolveSummary{}, err
	}
	return EvolveSummary{
		Run:      result.Record,
		History:  result.History.Steps,
		Midplane: run.MidplaneSlice(result.Metric),
	}, nil
}

// Runs lists persisted run records, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if _, err := c.ensureObservatory(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx, req.Limit)
}

// History returns the per-step history of one evolution run.
func (c *Client) History(ctx context.Context, runID string) ([]model.StepSummary, error) {
	if runID == "" {
		return nil, errors.New("history requires run id")
	}
	if _, err := c.ensureObservatory(ctx); err != nil {
		return nil, err
	}
	steps, ok, err := c.store.GetHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("history not found for run id: %s", runID)
	}
	return steps, nil
}

// Export writes the artifacts of one run (record JSON plus history CSV
// when present) under the export directory.
func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	if _, err := c.ensureObservatory(ctx); err != nil {
		return ExportSummary{}, err
	}

	var rec model.RunRecord
	if req.Latest {
		latest, ok, err := c.store.LatestRun(ctx)
		if err != nil {
			return ExportSummary{}, err
		}
		if !ok {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		rec = latest
	} else {
		found, ok, err := c.store.GetRun(ctx, req.RunID)
		if err != nil {
			return ExportSummary{}, err
		}
		if !ok {
			return ExportSummary{}, fmt.Errorf("run not found: %s", req.RunID)
		}
		rec = found
	}

	history, _, err := c.store.GetHistory(ctx, rec.ID)
	if err != nil {
		return ExportSummary{}, err
	}

	dir, err := stats.Artifacts{Run: rec, History: history}.Write(req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: rec.ID, Directory: filepath.Clean(dir)}, nil
}

// Scenarios lists the built-in scenario catalog.
func (c *Client) Scenarios(_ context.Context) []ScenarioItem {
	defs := scenario.Builtins()
	out := make([]ScenarioItem, 0, len(defs))
	for _, def := range defs {
		out = append(out, ScenarioItem{
			Name:         def.Name,
			Description:  def.Description,
			GridSize:     def.GridSize,
			DomainLength: def.DomainLength,
			Iterations:   def.Iterations,
			Steps:        def.Steps,
			TimeStep:     def.TimeStep,
		})
	}
	return out
}

func (c *Client) ensureObservatory(ctx context.Context) (*platform.Observatory, error) {
	if c.observatory != nil {
		return c.observatory, nil
	}
	obs := platform.NewObservatory(platform.Config{Store: c.store, Limits: c.limits})
	if err := obs.Init(ctx); err != nil {
		return nil, err
	}
	c.observatory = obs
	return c.observatory, nil
}

func resolveDefinition(name, file string) (*scenario.Definition, error) {
	if file == "" {
		return nil, nil
	}
	if name != "" {
		return nil, errors.New("use either scenario name or scenario file")
	}
	def, err := scenario.Load(file)
	if err != nil {
		return nil, err
	}
	return &def, nil
}
