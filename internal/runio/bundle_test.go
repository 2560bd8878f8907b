package runio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBundle = `{
  "input_graph": {"nodes": 3, "edges": [[0, 1], [1, 2], [0, 2]]},
  "oracle": {"counter_0": 1, "counter_1": 0, "counter_2": 1},
  "variants": [
    {
      "name": "snn_algo_graph",
      "simulator": "nx",
      "network": {
        "neurons": [
          {"id": {"kind": "counter", "node_index": 0}, "trace": [0, 1]},
          {"id": {"kind": "counter", "node_index": 1}, "trace": [0, 0]},
          {"id": {"kind": "counter", "node_index": 2}, "trace": [0, 1]}
        ],
        "completed_stages": [1, 2]
      }
    },
    {
      "name": "rad_snn_algo_graph",
      "simulator": "simsnn",
      "raster": {
        "names": ["counter_0", "counter_1", "counter_2"],
        "currents": [[0, 0, 0], [1, 0, 1]],
        "completed_stages": [1, 2]
      }
    }
  ]
}`

func writeBundle(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write bundle failed: %v", err)
	}
	return path
}

func TestLoadBundle(t *testing.T) {
	bundle, err := LoadBundle(writeBundle(t, sampleBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if bundle.Graph.Nodes != 3 || len(bundle.Graph.Edges) != 3 {
		t.Fatalf("unexpected graph spec: %+v", bundle.Graph)
	}
	if bundle.Oracle["counter_2"] != 1 {
		t.Fatalf("unexpected oracle: %v", bundle.Oracle)
	}
	if len(bundle.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(bundle.Variants))
	}
	if bundle.Variants[0].Network == nil || bundle.Variants[1].Raster == nil {
		t.Fatal("variant payloads not decoded")
	}
}

func TestBundleInputGraph(t *testing.T) {
	bundle, err := LoadBundle(writeBundle(t, sampleBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	graph, err := bundle.InputGraph()
	if err != nil {
		t.Fatalf("input graph failed: %v", err)
	}
	if graph.NodeCount() != 3 {
		t.Fatalf("unexpected node count: %d", graph.NodeCount())
	}
	neighbours := graph.Neighbours(0)
	if len(neighbours) != 2 || neighbours[0] != 1 || neighbours[1] != 2 {
		t.Fatalf("unexpected neighbours: %v", neighbours)
	}
}

func TestBundleVariantRuns(t *testing.T) {
	bundle, err := LoadBundle(writeBundle(t, sampleBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	runs := bundle.VariantRuns()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "snn_algo_graph" || runs[0].Simulator != "nx" || runs[0].Net == nil {
		t.Fatalf("unexpected first run: %+v", runs[0])
	}
	if runs[1].Name != "rad_snn_algo_graph" || runs[1].Simulator != "simsnn" || runs[1].Raster == nil {
		t.Fatalf("unexpected second run: %+v", runs[1])
	}
}

func TestLoadBundleRejections(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     string
	}{
		{
			"no nodes",
			`{"oracle": {"counter_0": 1}, "variants": [{"name": "snn_algo_graph", "simulator": "nx"}]}`,
			"at least one node",
		},
		{
			"no oracle",
			`{"input_graph": {"nodes": 1}, "variants": [{"name": "snn_algo_graph", "simulator": "nx"}]}`,
			"oracle marks",
		},
		{
			"no variants",
			`{"input_graph": {"nodes": 1}, "oracle": {"counter_0": 1}}`,
			"no variants",
		},
		{
			"unnamed variant",
			`{"input_graph": {"nodes": 1}, "oracle": {"counter_0": 1}, "variants": [{"simulator": "nx"}]}`,
			"missing a name",
		},
		{
			"no simulator",
			`{"input_graph": {"nodes": 1}, "oracle": {"counter_0": 1}, "variants": [{"name": "snn_algo_graph"}]}`,
			"missing a simulator",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBundle(writeBundle(t, tc.contents))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q rejection, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadBundleMissingFile(t *testing.T) {
	if _, err := LoadBundle(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected read error for a missing file")
	}
}
