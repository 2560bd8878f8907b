package snnverify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"snnverify/internal/config"
	"snnverify/internal/model"
	"snnverify/internal/pipeline"
	"snnverify/internal/runio"
	"snnverify/internal/snn"
)

type PrepareRequest struct {
	BundlePath string
	ConfigPath string
	OutPath    string
}

type PrepareSummary struct {
	OutPath      string
	RedLevel     int
	SynapseCount int
	NeuronCount  int
}

// adaptedNetwork is the on-disk form of a prepared network: the augmented
// wiring plus the redundancy groups the readout will vote over.
type adaptedNetwork struct {
	Network          *model.Network          `json:"network"`
	RedundancyGroups []model.RedundancyGroup `json:"redundancy_groups"`
}

// Prepare augments a bundle's baseline network for a fault-tolerant run:
// recurrent self-loops over every population, then replica counters wired
// identically to their primaries. The adapted network is written as JSON for
// the simulation side to pick up.
func (c *Client) Prepare(_ context.Context, req PrepareRequest) (PrepareSummary, error) {
	if req.BundlePath == "" {
		return PrepareSummary{}, errors.New("prepare requires a bundle path")
	}
	if req.OutPath == "" {
		return PrepareSummary{}, errors.New("prepare requires an output path")
	}

	cfg, err := config.Load(req.ConfigPath)
	if err != nil {
		return PrepareSummary{}, err
	}
	bundle, err := runio.LoadBundle(req.BundlePath)
	if err != nil {
		return PrepareSummary{}, err
	}
	graph, err := bundle.InputGraph()
	if err != nil {
		return PrepareSummary{}, err
	}

	var net *model.Network
	for _, variant := range bundle.Variants {
		if variant.Name == pipeline.VariantBaseline && variant.Network != nil {
			net = variant.Network
			break
		}
	}
	if net == nil {
		return PrepareSummary{}, fmt.Errorf("bundle has no wired %s variant to adapt", pipeline.VariantBaseline)
	}

	if err := snn.AddRecurrentSynapses(graph, net, cfg.Algorithm.RecurrentWeight, cfg.Algorithm.MVal); err != nil {
		return PrepareSummary{}, err
	}
	groups, err := snn.AddCounterRedundancy(net, cfg.Adaptation.RedLevel)
	if err != nil {
		return PrepareSummary{}, err
	}

	data, err := json.MarshalIndent(adaptedNetwork{Network: net, RedundancyGroups: groups}, "", "  ")
	if err != nil {
		return PrepareSummary{}, err
	}
	data = append(data, '\n')
	if err := os.WriteFile(req.OutPath, data, 0o644); err != nil {
		return PrepareSummary{}, err
	}

	return PrepareSummary{
		OutPath:      req.OutPath,
		RedLevel:     cfg.Adaptation.RedLevel,
		SynapseCount: len(net.Synapses),
		NeuronCount:  len(net.Neurons),
	}, nil
}
