package model

import (
	"fmt"

	"snnverify/internal/verr"
)

// Network is the id-indexed arena holding the wired SNN. The topology is
// created once at network-build time; readout treats it as immutable.
type Network struct {
	Neurons         []*Neuron `json:"neurons"`
	Synapses        []Synapse `json:"synapses"`
	CompletedStages []int     `json:"completed_stages,omitempty"`
	RedLevel        int       `json:"red_level,omitempty"`

	index map[NeuronID]*Neuron
}

func NewNetwork() *Network {
	return &Network{index: make(map[NeuronID]*Neuron)}
}

// AddNeuron registers a neuron under its structural id.
func (n *Network) AddNeuron(id NeuronID) (*Neuron, error) {
	if n.index == nil {
		n.index = make(map[NeuronID]*Neuron)
	}
	if _, exists := n.index[id]; exists {
		return nil, fmt.Errorf("duplicate neuron: %s", id.Name())
	}
	neuron := &Neuron{ID: id}
	n.Neurons = append(n.Neurons, neuron)
	n.index[id] = neuron
	return neuron, nil
}

// Neuron looks a neuron up by structural id.
func (n *Network) Neuron(id NeuronID) (*Neuron, bool) {
	n.ensureIndex()
	neuron, ok := n.index[id]
	return neuron, ok
}

// Connect adds a synapse between two existing neurons. A missing endpoint is
// a lookup failure and aborts construction.
func (n *Network) Connect(from, to NeuronID, weight float64, delay int, changePerT float64) error {
	n.ensureIndex()
	if _, ok := n.index[from]; !ok {
		return &verr.LookupError{Name: from.Name()}
	}
	if _, ok := n.index[to]; !ok {
		return &verr.LookupError{Name: to.Name()}
	}
	n.Synapses = append(n.Synapses, Synapse{
		From:       from,
		To:         to,
		Weight:     weight,
		Delay:      delay,
		ChangePerT: changePerT,
	})
	return nil
}

// NeuronsOfKind returns neurons of one kind in insertion order.
func (n *Network) NeuronsOfKind(kind NeuronKind) []*Neuron {
	out := make([]*Neuron, 0, len(n.Neurons))
	for _, neuron := range n.Neurons {
		if neuron.ID.Kind == kind {
			out = append(out, neuron)
		}
	}
	return out
}

// MarkStageCompleted records a finished simulation stage.
func (n *Network) MarkStageCompleted(stage int) {
	if n.HasCompletedStage(stage) {
		return
	}
	n.CompletedStages = append(n.CompletedStages, stage)
}

func (n *Network) HasCompletedStage(stage int) bool {
	for _, completed := range n.CompletedStages {
		if completed == stage {
			return true
		}
	}
	return false
}

// Duration is the trace length shared by the network's neurons; zero when no
// traces are attached yet.
func (n *Network) Duration() int {
	duration := 0
	for _, neuron := range n.Neurons {
		if len(neuron.Trace) > duration {
			duration = len(neuron.Trace)
		}
	}
	return duration
}

// ensureIndex rebuilds the id index after JSON decoding, which bypasses
// AddNeuron.
func (n *Network) ensureIndex() {
	if n.index != nil && len(n.index) == len(n.Neurons) {
		return
	}
	n.index = make(map[NeuronID]*Neuron, len(n.Neurons))
	for _, neuron := range n.Neurons {
		n.index[neuron.ID] = neuron
	}
}
