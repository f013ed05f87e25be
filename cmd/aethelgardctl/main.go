package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"aethelgard/internal/dashboard"
	"aethelgard/internal/physics"
	"aethelgard/internal/platform"
	"aethelgard/internal/storage"
	fieldapi "aethelgard/pkg/aethelgard"
)

const exportsDir = "exports"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "solve":
		return runSolve(ctx, args[1:])
	case "evolve":
		return runEvolve(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "scenarios":
		return runScenarios(ctx, args[1:])
	case "flux":
		return runFlux(ctx, args[1:])
	case "serve":
		return runServe(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: aethelgardctl <init|solve|evolve|runs|history|export|scenarios|flux|serve> [flags]", msg)
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	obs := platform.NewObservatory(platform.Config{Store: store})
	if err := obs.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runSolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	scenarioName := fs.String("scenario", "", "builtin scenario name")
	scenarioFile := fs.String("scenario-file", "", "scenario definition YAML path")
	gridSize := fs.Int("grid-size", 0, "grid points per axis (overrides scenario)")
	domainLength := fs.Float64("domain-length", 0, "domain edge length in meters (overrides scenario)")
	iterations := fs.Int("iterations", 0, "relaxation iterations (overrides scenario)")
	accelerated := fs.Bool("accelerated", false, "use the parallel stencil backend")
	seed := fs.Int64("seed", 0, "rng seed for fluctuating fields (overrides scenario)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the run record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := fieldapi.New(fieldapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ExportsDir: exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Solve(ctx, fieldapi.SolveRequest{
		Scenario:     *scenarioName,
		ScenarioFile: *scenarioFile,
		GridSize:     *gridSize,
		DomainLength: *domainLength,
		Iterations:   *iterations,
		Accelerated:  *accelerated,
		Seed:         *seed,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary.Run)
	}

	rec := summary.Run
	fmt.Printf("solve completed run_id=%s scenario=%s grid=%d iterations=%d backend=%s\n",
		rec.ID, rec.Scenario, rec.GridSize, rec.Iterations, rec.Backend)
	fmt.Printf("g00_mean=%g g00_std=%g g00_min=%g g00_max=%g hazard=%.4f\n",
		rec.G00Mean, rec.G00Std, rec.G00Min, rec.G00Max, rec.Hazard)
	return nil
}

func runEvolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("evolve", flag.ContinueOnError)
	scenarioName := fs.String("scenario", "", "builtin scenario name")
	scenarioFile := fs.String("scenario-file", "", "scenario definition YAML path")
	gridSize := fs.Int("grid-size", 0, "grid points per axis (overrides scenario)")
	domainLength := fs.Float64("domain-length", 0, "domain edge length in meters (overrides scenario)")
	steps := fs.Int("steps", 0, "evolution steps (overrides scenario)")
	timeStep := fs.Float64("dt", 0, "time step in seconds (overrides scenario)")
	accelerated := fs.Bool("accelerated", false, "use the parallel stencil backend")
	seed := fs.Int64("seed", 0, "rng seed for fluctuating fields (overrides scenario)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the run record and history as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := fieldapi.New(fieldapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ExportsDir: exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Evolve(ctx, fieldapi.EvolveRequest{
		Scenario:     *scenarioName,
		ScenarioFile: *scenarioFile,
		GridSize:     *gridSize,
		DomainLength: *domainLength,
		Steps:        *steps,
		TimeStep:     *timeStep,
		Accelerated:  *accelerated,
		Seed:         *seed,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	rec := summary.Run
	fmt.Printf("evolve completed run_id=%s scenario=%s grid=%d steps=%d dt=%g backend=%s\n",
		rec.ID, rec.Scenario, rec.GridSize, rec.Steps, rec.TimeStep, rec.Backend)
	for _, step := range summary.History {
		fmt.Printf("step=%d t=%g g00_mean=%g g00_std=%g k_mean_abs=%g entropy_mean=%g\n",
			step.Step, step.Time, step.G00Mean, step.G00Std, step.KMeanAbs, step.EntropyMean)
	}
	fmt.Printf("g00_mean=%g g00_std=%g hazard=%.4f\n", rec.G00Mean, rec.G00Std, rec.Hazard)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := fieldapi.New(fieldapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ExportsDir: exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, fieldapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, rec := range runs {
		fmt.Printf("run_id=%s created_at=%s kind=%s scenario=%s grid=%d iterations=%d steps=%d g00_mean=%g hazard=%.4f\n",
			rec.ID, rec.CreatedAtUTC, rec.Kind, rec.Scenario, rec.GridSize, rec.Iterations, rec.Steps, rec.G00Mean, rec.Hazard)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit history as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("history requires --run-id")
	}

	client, err := fieldapi.New(fieldapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ExportsDir: exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	for _, step := range history {
		fmt.Printf("step=%d t=%g g00_mean=%g g00_std=%g k_mean_abs=%g entropy_mean=%g\n",
			step.Step, step.Time, step.G00Mean, step.G00Std, step.KMeanAbs, step.EntropyMean)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", "", "output directory (default: exports/)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	client, err := fieldapi.New(fieldapi.Options{
		StoreKind:  *storeKind,
		DBPath:     *dbPath,
		ExportsDir: exportsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, fieldapi.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", summary.RunID, summary.Directory)
	return nil
}

func runScenarios(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "emit scenario catalog as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := fieldapi.New(fieldapi.Options{StoreKind: "memory"})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items := client.Scenarios(ctx)
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	for _, item := range items {
		fmt.Printf("scenario=%s grid=%d domain=%g iterations=%d steps=%d dt=%g description=%s\n",
			item.Name, item.GridSize, item.DomainLength, item.Iterations, item.Steps, item.TimeStep, item.Description)
	}
	return nil
}

func runFlux(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("flux", flag.ContinueOnError)
	mass := fs.Float64("mass", 0, "point mass in kg")
	radius := fs.Float64("radius", 0, "observation shell radius in meters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mass <= 0 {
		return errors.New("flux requires --mass > 0")
	}
	if *radius <= 0 {
		return errors.New("flux requires --radius > 0")
	}

	shift, density := physics.FluxAnomaly(*mass, *radius)
	fmt.Printf("flux mass=%g radius=%g density=%g shift=%g\n", *mass, *radius, density, shift)
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "dashboard listen address")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "aethelgard.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	server := dashboard.NewServer(dashboard.Config{
		Addr:   *addr,
		Store:  store,
		Logger: logger,
	})
	obs := platform.NewObservatory(platform.Config{
		Store:          store,
		SupportModules: []platform.SupportModule{server},
	})
	if err := obs.Init(ctx); err != nil {
		return err
	}

	waitCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-waitCtx.Done()

	logger.Info("shutting down")
	return obs.Shutdown(context.Background())
}
