// Package runio decodes a recorded verification bundle: the input graph,
// the reference oracle marks, and one completed simulation per network
// variant.
package runio

import (
	"encoding/json"
	"fmt"
	"os"

	"snnverify/internal/backend"
	"snnverify/internal/model"
	"snnverify/internal/pipeline"
)

type Bundle struct {
	Graph    GraphSpec         `json:"input_graph"`
	Oracle   model.OracleMarks `json:"oracle"`
	Variants []VariantSpec     `json:"variants"`
}

type GraphSpec struct {
	Nodes int      `json:"nodes"`
	Edges [][2]int `json:"edges"`
}

type VariantSpec struct {
	Name      string          `json:"name"`
	Simulator string          `json:"simulator"`
	Network   *model.Network  `json:"network,omitempty"`
	Raster    *backend.Raster `json:"raster,omitempty"`
	RedLevel  int             `json:"red_level,omitempty"`
}

func LoadBundle(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("read bundle: %w", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("parse bundle: %w", err)
	}
	if err := bundle.check(); err != nil {
		return Bundle{}, err
	}
	return bundle, nil
}

func (b Bundle) check() error {
	if b.Graph.Nodes <= 0 {
		return fmt.Errorf("bundle input graph needs at least one node")
	}
	if len(b.Oracle) == 0 {
		return fmt.Errorf("bundle is missing the oracle marks")
	}
	if len(b.Variants) == 0 {
		return fmt.Errorf("bundle contains no variants")
	}
	for i, variant := range b.Variants {
		if variant.Name == "" {
			return fmt.Errorf("bundle variant %d is missing a name", i)
		}
		if variant.Simulator == "" {
			return fmt.Errorf("bundle variant %s is missing a simulator", variant.Name)
		}
	}
	return nil
}

// InputGraph materializes the immutable input graph from the bundle.
func (b Bundle) InputGraph() (*model.InputGraph, error) {
	graph, err := model.NewInputGraph(b.Graph.Nodes)
	if err != nil {
		return nil, err
	}
	for _, edge := range b.Graph.Edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}
	return graph, nil
}

// VariantRuns converts the bundle variants into pipeline inputs.
func (b Bundle) VariantRuns() []pipeline.VariantRun {
	runs := make([]pipeline.VariantRun, 0, len(b.Variants))
	for _, variant := range b.Variants {
		runs = append(runs, pipeline.VariantRun{
			Name:      variant.Name,
			Simulator: variant.Simulator,
			Net:       variant.Network,
			Raster:    variant.Raster,
			RedLevel:  variant.RedLevel,
		})
	}
	return runs
}
