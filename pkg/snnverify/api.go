// Package snnverify is the library boundary for verifying SNN-encoded MDSA
// results against the trusted reference oracle.
package snnverify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"snnverify/internal/backend"
	"snnverify/internal/config"
	"snnverify/internal/model"
	"snnverify/internal/pipeline"
	"snnverify/internal/report"
	"snnverify/internal/runio"
	"snnverify/internal/storage"
)

const (
	defaultArtifactsDir = "results"
	defaultExportsDir   = "exports"
	defaultDBPath       = "snnverify.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
}

type Client struct {
	store       storage.Store
	initialized bool

	artifactsDir string
	exportsDir   string
}

type VerifyRequest struct {
	RunID      string
	BundlePath string
	ConfigPath string
}

type VariantSummary struct {
	Name       string
	Passed     bool
	Validated  bool
	Mismatched []string
}

type VerifySummary struct {
	RunID        string
	ArtifactsDir string
	AllPassed    bool
	Variants     []VariantSummary
}

type ResultsRequest struct {
	RunID  string
	Latest bool
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

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
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
		store:        store,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

// Verify runs the four-variant verification sweep over a recorded bundle,
// persists the per-variant results, and writes the run artifacts. A
// validation failure aborts with the underlying error after the diagnostic
// trace plot was written.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (VerifySummary, error) {
	if req.BundlePath == "" {
		return VerifySummary{}, errors.New("verify requires a bundle path")
	}

	cfg, err := config.Load(req.ConfigPath)
	if err != nil {
		return VerifySummary{}, err
	}
	bundle, err := runio.LoadBundle(req.BundlePath)
	if err != nil {
		return VerifySummary{}, err
	}
	graph, err := bundle.InputGraph()
	if err != nil {
		return VerifySummary{}, err
	}

	now := time.Now().UTC()
	runID := req.RunID
	if runID == "" {
		runID = fmt.Sprintf("mdsa-%d-%d", cfg.Algorithm.Seed, now.Unix())
	}
	runDir := filepath.Join(c.artifactsDir, runID)

	variants := bundle.VariantRuns()
	nets := make(map[string]*model.Network, len(variants))
	rasters := make(map[string]*backend.Raster, len(variants))
	for i := range variants {
		if variants[i].RedLevel == 0 && variants[i].Net == nil {
			variants[i].RedLevel = cfg.Adaptation.RedLevel
		}
		nets[variants[i].Name] = variants[i].Net
		rasters[variants[i].Name] = variants[i].Raster
	}

	results, err := pipeline.Apply(pipeline.Request{
		Graph:    graph,
		Oracle:   bundle.Oracle,
		Variants: variants,
		Plotter:  report.TracePlotter{Dir: runDir, Nets: nets, Rasters: rasters},
	})
	if err != nil {
		return VerifySummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return VerifySummary{}, err
	}

	createdAt := now.Format(time.RFC3339Nano)
	allPassed := true
	reports := make([]report.VariantReport, 0, len(results))
	summaries := make([]VariantSummary, 0, len(results))
	for _, result := range results {
		mismatched := make([]string, 0, len(result.Outcome.Mismatches))
		for _, mismatch := range result.Outcome.Mismatches {
			mismatched = append(mismatched, mismatch.Node)
		}
		if !result.Result.Passed {
			allPassed = false
		}

		if err := c.store.SaveRunResult(ctx, model.RunResult{
			VersionedRecord: versioned(),
			RunID:           runID,
			Variant:         result.Name,
			Counts:          result.Result.Counts,
			Passed:          result.Result.Passed,
			CreatedAtUTC:    createdAt,
		}); err != nil {
			return VerifySummary{}, err
		}
		if err := c.store.SaveValidation(ctx, model.ValidationRecord{
			VersionedRecord: versioned(),
			RunID:           runID,
			Variant:         result.Name,
			Passed:          result.Outcome.Passed,
			Mismatched:      mismatched,
			CreatedAtUTC:    createdAt,
		}); err != nil {
			return VerifySummary{}, err
		}

		reports = append(reports, report.VariantReport{
			Name:       result.Name,
			Counts:     result.Result.Counts,
			Passed:     result.Result.Passed,
			Validated:  result.Validated,
			Mismatched: mismatched,
		})
		summaries = append(summaries, VariantSummary{
			Name:       result.Name,
			Passed:     result.Result.Passed,
			Validated:  result.Validated,
			Mismatched: mismatched,
		})
	}

	writtenDir, err := report.WriteRunArtifacts(c.artifactsDir, report.RunArtifacts{
		Config: report.RunConfig{
			RunID:           runID,
			MVal:            cfg.Algorithm.MVal,
			Seed:            cfg.Algorithm.Seed,
			GraphSize:       graph.NodeCount(),
			RedLevel:        cfg.Adaptation.RedLevel,
			Simulator:       cfg.Simulator,
			RecurrentWeight: cfg.Algorithm.RecurrentWeight,
		},
		Oracle:    bundle.Oracle,
		Variants:  reports,
		AllPassed: allPassed,
	})
	if err != nil {
		return VerifySummary{}, err
	}

	if err := report.AppendRunIndex(c.artifactsDir, report.RunIndexEntry{
		RunID:        runID,
		Simulator:    cfg.Simulator,
		GraphSize:    graph.NodeCount(),
		MVal:         cfg.Algorithm.MVal,
		RedLevel:     cfg.Adaptation.RedLevel,
		Seed:         cfg.Algorithm.Seed,
		AllPassed:    allPassed,
		CreatedAtUTC: createdAt,
	}); err != nil {
		return VerifySummary{}, err
	}

	return VerifySummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(writtenDir),
		AllPassed:    allPassed,
		Variants:     summaries,
	}, nil
}

func (c *Client) Results(ctx context.Context, req ResultsRequest) ([]model.RunResult, error) {
	if req.RunID != "" && req.Latest {
		return nil, errors.New("use either run id or latest")
	}

	runID := req.RunID
	if req.Latest {
		entries, err := report.ListRunIndex(c.artifactsDir)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, errors.New("no runs available")
		}
		runID = entries[0].RunID
	}
	if runID == "" {
		return nil, errors.New("results require run id or latest")
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	results, err := c.store.ListRunResults(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("results not found for run id: %s", runID)
	}
	return results, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]report.RunIndexEntry, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := report.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}
	return entries, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		entries, err := report.ListRunIndex(c.artifactsDir)
		if err != nil {
			return ExportSummary{}, err
		}
		if len(entries) == 0 {
			return ExportSummary{}, errors.New("no runs available to export")
		}
		runID = entries[0].RunID
	}

	exportedDir, err := report.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func versioned() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: storage.CurrentSchemaVersion,
		CodecVersion:  storage.CurrentCodecVersion,
	}
}
