// Package snn augments a baseline wired MDSA network with the recurrent
// self-synapses and the redundant counter replicas the radiation-fault
// model needs. Augmentation runs once, before simulation; the network is
// immutable afterwards.
package snn

import (
	"fmt"

	"snnverify/internal/model"
)

// Fixed strong-inhibition weights for the round-keeping populations,
// distinct from the configurable recurrent weight.
const (
	nextRoundRecurrentWeight = -5
	delayRecurrentWeight     = -15
)

// AddRecurrentSynapses equips each stabilizing population with a
// self-synapse: spike_once, degree_receiver and rand neurons at the
// configured recurrent weight, next_round and delay neurons at their fixed
// inhibitory weights. A missing neuron id aborts construction.
func AddRecurrentSynapses(graph *model.InputGraph, net *model.Network, recurrentWeight float64, mValMax int) error {
	if graph == nil || net == nil {
		return fmt.Errorf("recurrent wiring requires an input graph and a network")
	}
	if mValMax < 0 {
		return fmt.Errorf("m_val bound must be >= 0, got %d", mValMax)
	}
	if err := addSpikeOnceLoops(graph, net, recurrentWeight); err != nil {
		return err
	}
	if err := addDegreeReceiverLoops(graph, net, recurrentWeight, mValMax); err != nil {
		return err
	}
	if err := addRandLoops(graph, net, recurrentWeight, mValMax); err != nil {
		return err
	}
	if err := addNextRoundLoops(net, mValMax); err != nil {
		return err
	}
	return addDelayLoops(net, mValMax)
}

func addSpikeOnceLoops(graph *model.InputGraph, net *model.Network, weight float64) error {
	for nodeIndex := 0; nodeIndex < graph.NodeCount(); nodeIndex++ {
		id := model.SpikeOnceID(nodeIndex)
		if err := net.Connect(id, id, weight, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

func addDegreeReceiverLoops(graph *model.InputGraph, net *model.Network, weight float64, mValMax int) error {
	for nodeIndex := 0; nodeIndex < graph.NodeCount(); nodeIndex++ {
		for _, neighbour := range graph.Neighbours(nodeIndex) {
			if neighbour == nodeIndex {
				continue
			}
			for mVal := 0; mVal <= mValMax; mVal++ {
				id := model.DegreeReceiverID(nodeIndex, neighbour, mVal)
				if err := net.Connect(id, id, weight, 0, 0); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func addRandLoops(graph *model.InputGraph, net *model.Network, weight float64, mValMax int) error {
	for nodeIndex := 0; nodeIndex < graph.NodeCount(); nodeIndex++ {
		for mVal := 0; mVal <= mValMax; mVal++ {
			id := model.RandID(nodeIndex, mVal)
			if err := net.Connect(id, id, weight, 0, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

func addNextRoundLoops(net *model.Network, mValMax int) error {
	for mVal := 1; mVal <= mValMax; mVal++ {
		id := model.NextRoundID(mVal)
		if err := net.Connect(id, id, nextRoundRecurrentWeight, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

func addDelayLoops(net *model.Network, mValMax int) error {
	for mVal := 1; mVal <= mValMax; mVal++ {
		id := model.DelayID(mVal)
		if err := net.Connect(id, id, delayRecurrentWeight, 0, 0); err != nil {
			return err
		}
	}
	return nil
}
