package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	api "snnverify/pkg/snnverify"
)

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
	case "prepare":
		return runPrepare(ctx, args[1:])
	case "verify":
		return runVerify(ctx, args[1:])
	case "results":
		return runResults(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "snnverify.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runPrepare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)
	bundlePath := fs.String("bundle", "", "path to the recorded run bundle (JSON)")
	configPath := fs.String("config", "", "path to the experiment config (YAML)")
	outPath := fs.String("out", "", "path for the adapted network (JSON)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bundlePath == "" {
		return errors.New("prepare requires -bundle")
	}
	if *outPath == "" {
		return errors.New("prepare requires -out")
	}

	client, err := api.New(api.Options{})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Prepare(ctx, api.PrepareRequest{
		BundlePath: *bundlePath,
		ConfigPath: *configPath,
		OutPath:    *outPath,
	})
	if err != nil {
		return err
	}
	fmt.Printf("prepared out=%s red_level=%d neurons=%d synapses=%d\n",
		summary.OutPath, summary.RedLevel, summary.NeuronCount, summary.SynapseCount)
	return nil
}

func runVerify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	bundlePath := fs.String("bundle", "", "path to the recorded run bundle (JSON)")
	configPath := fs.String("config", "", "path to the experiment config (YAML)")
	runID := fs.String("run-id", "", "run id override")
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "snnverify.db", "sqlite database path")
	artifactsDir := fs.String("artifacts-dir", "results", "run artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bundlePath == "" {
		return errors.New("verify requires -bundle")
	}

	client, err := api.New(api.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: *artifactsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Verify(ctx, api.VerifyRequest{
		RunID:      *runID,
		BundlePath: *bundlePath,
		ConfigPath: *configPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run_id=%s all_passed=%t artifacts=%s\n", summary.RunID, summary.AllPassed, summary.ArtifactsDir)
	for _, variant := range summary.Variants {
		fmt.Printf("  %-24s passed=%-5t validated=%-5t mismatched=%d\n",
			variant.Name, variant.Passed, variant.Validated, len(variant.Mismatched))
	}
	return nil
}

func runResults(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id to read")
	latest := fs.Bool("latest", false, "read the most recent run")
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "snnverify.db", "sqlite database path")
	artifactsDir := fs.String("artifacts-dir", "results", "run artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{
		StoreKind:    *storeKind,
		DBPath:       *dbPath,
		ArtifactsDir: *artifactsDir,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	results, err := client.Results(ctx, api.ResultsRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	artifactsDir := fs.String("artifacts-dir", "results", "run artifacts directory")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := api.New(api.Options{ArtifactsDir: *artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	entries, err := client.Runs(ctx, api.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	if *jsonOut {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s created=%s simulator=%s size=%d m_val=%d red_level=%d seed=%d all_passed=%t\n",
			entry.RunID, entry.CreatedAtUTC, entry.Simulator, entry.GraphSize,
			entry.MVal, entry.RedLevel, entry.Seed, entry.AllPassed)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id to export")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", "exports", "export directory")
	artifactsDir := fs.String("artifacts-dir", "results", "run artifacts directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := api.New(api.Options{ArtifactsDir: *artifactsDir, ExportsDir: *outDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Export(ctx, api.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", summary.RunID, summary.Directory)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: snnverifyctl <init|prepare|verify|results|runs|export> [flags]", msg)
}
