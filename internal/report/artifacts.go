// Package report writes per-run verification artifacts: the run config, the
// oracle marks, and the per-variant consensus results, plus a run index for
// listing and export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"snnverify/internal/model"
)

const runIndexFile = "run_index.json"

type RunConfig struct {
	RunID           string  `json:"run_id"`
	MVal            int     `json:"m_val"`
	Seed            int64   `json:"seed"`
	GraphSize       int     `json:"graph_size"`
	RedLevel        int     `json:"red_level"`
	Simulator       string  `json:"simulator"`
	RecurrentWeight float64 `json:"recurrent_weight"`
}

type VariantReport struct {
	Name       string             `json:"name"`
	Counts     map[string]float64 `json:"counts"`
	Passed     bool               `json:"passed"`
	Validated  bool               `json:"validated"`
	Mismatched []string           `json:"mismatched,omitempty"`
}

type RunArtifacts struct {
	Config    RunConfig         `json:"config"`
	Oracle    model.OracleMarks `json:"oracle"`
	Variants  []VariantReport   `json:"variants"`
	AllPassed bool              `json:"all_passed"`
}

type RunIndexEntry struct {
	RunID        string `json:"run_id"`
	Simulator    string `json:"simulator"`
	GraphSize    int    `json:"graph_size"`
	MVal         int    `json:"m_val"`
	RedLevel     int    `json:"red_level"`
	Seed         int64  `json:"seed"`
	AllPassed    bool   `json:"all_passed"`
	CreatedAtUTC string `json:"created_at_utc"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "oracle.json"), artifacts.Oracle); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "results.json"), map[string]any{
		"variants":   artifacts.Variants,
		"all_passed": artifacts.AllPassed,
	}); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{"config.json", "oracle.json", "results.json"} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}

	entries, err := filepath.Glob(filepath.Join(src, "trace_plot_*.json"))
	if err != nil {
		return "", err
	}
	for _, path := range entries {
		if err := copyFile(path, filepath.Join(dst, filepath.Base(path))); err != nil {
			return "", err
		}
	}

	return dst, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
